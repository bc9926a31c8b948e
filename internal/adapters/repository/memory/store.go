package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

// Store keeps questions and choices in process memory. It backs the
// STORAGE=memory mode and the handler tests.
type Store struct {
	mu sync.RWMutex

	questions map[int64]domain.Question
	choices   map[int64]domain.Choice

	nextQuestionID int64
	nextChoiceID   int64
}

func NewStore() *Store {
	return &Store{
		questions: make(map[int64]domain.Question),
		choices:   make(map[int64]domain.Choice),
	}
}

func (s *Store) Questions() ports.QuestionRepository {
	return &questionRepository{store: s}
}

func (s *Store) Choices() ports.ChoiceRepository {
	return &choiceRepository{store: s}
}

type questionRepository struct {
	store *Store
}

func (r *questionRepository) Save(_ context.Context, question *domain.Question) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQuestionID++
	question.ID = s.nextQuestionID
	for i := range question.Choices {
		s.nextChoiceID++
		question.Choices[i].ID = s.nextChoiceID
		question.Choices[i].QuestionID = question.ID
		s.choices[question.Choices[i].ID] = question.Choices[i]
	}

	stored := *question
	stored.Choices = nil
	s.questions[question.ID] = stored
	return nil
}

func (r *questionRepository) Update(_ context.Context, question *domain.Question) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.questions[question.ID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	existing.Text = question.Text
	existing.PubDate = question.PubDate
	s.questions[question.ID] = existing
	return nil
}

func (r *questionRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	for choiceID, c := range s.choices {
		if c.QuestionID == id {
			delete(s.choices, choiceID)
		}
	}
	return nil
}

func (r *questionRepository) GetByID(_ context.Context, id int64) (*domain.Question, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	q.Choices = s.choicesOf(id)
	return &q, nil
}

func (r *questionRepository) GetPublished(ctx context.Context, id int64, now time.Time) (*domain.Question, error) {
	q, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.IsPublished(now) {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (r *questionRepository) ListPublished(_ context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	published := true
	return r.store.filterQuestions(ports.QuestionFilter{Published: &published, Now: now, Limit: limit}), nil
}

func (r *questionRepository) GetAll(_ context.Context) ([]*domain.Question, error) {
	return r.store.filterQuestions(ports.QuestionFilter{}), nil
}

func (r *questionRepository) Search(_ context.Context, filter ports.QuestionFilter) ([]*domain.Question, error) {
	return r.store.filterQuestions(filter), nil
}

func (r *questionRepository) Ping(context.Context) error {
	return nil
}

func (s *Store) filterQuestions(filter ports.QuestionFilter) []*domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	var out []*domain.Question
	for _, q := range s.questions {
		if query != "" && !strings.Contains(strings.ToLower(q.Text), query) {
			continue
		}
		if filter.Published != nil && q.IsPublished(filter.Now) != *filter.Published {
			continue
		}
		q := q
		out = append(out, &q)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].PubDate.After(out[j].PubDate)
	})

	return page(out, filter.Limit, filter.Offset)
}

// choicesOf must be called with s.mu held.
func (s *Store) choicesOf(questionID int64) []domain.Choice {
	var out []domain.Choice
	for _, c := range s.choices {
		if c.QuestionID == questionID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type choiceRepository struct {
	store *Store
}

func (r *choiceRepository) Save(_ context.Context, choice *domain.Choice) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[choice.QuestionID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.nextChoiceID++
	choice.ID = s.nextChoiceID
	s.choices[choice.ID] = *choice
	return nil
}

func (r *choiceRepository) Update(_ context.Context, choice *domain.Choice) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.choices[choice.ID]; !ok {
		return domain.ErrChoiceNotFound
	}
	if _, ok := s.questions[choice.QuestionID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.choices[choice.ID] = *choice
	return nil
}

func (r *choiceRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.choices[id]; !ok {
		return domain.ErrChoiceNotFound
	}
	delete(s.choices, id)
	return nil
}

func (r *choiceRepository) GetByID(_ context.Context, id int64) (*domain.Choice, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.choices[id]
	if !ok {
		return nil, domain.ErrChoiceNotFound
	}
	return &c, nil
}

func (r *choiceRepository) ListByQuestion(_ context.Context, questionID int64) ([]domain.Choice, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.choicesOf(questionID), nil
}

func (r *choiceRepository) Search(_ context.Context, filter ports.ChoiceFilter) ([]domain.Choice, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	var out []domain.Choice
	for _, c := range s.choices {
		if filter.QuestionID != 0 && c.QuestionID != filter.QuestionID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(c.Text), query) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return page(out, filter.Limit, filter.Offset), nil
}

func (r *choiceRepository) IncrementVotes(_ context.Context, questionID, choiceID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.choices[choiceID]
	if !ok || c.QuestionID != questionID {
		return domain.ErrChoiceNotFound
	}
	c.Votes++
	s.choices[choiceID] = c
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
