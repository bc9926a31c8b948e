package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

// AdminPageSize is the number of rows per admin listing page.
const AdminPageSize = 10

type adminService struct {
	questionRepo ports.QuestionRepository
	choiceRepo   ports.ChoiceRepository
	clock        ports.Clock
	logger       *slog.Logger
}

func NewAdminService(questionRepo ports.QuestionRepository, choiceRepo ports.ChoiceRepository, clock ports.Clock, logger *slog.Logger) ports.AdminService {
	return &adminService{
		questionRepo: questionRepo,
		choiceRepo:   choiceRepo,
		clock:        clock,
		logger:       resolveLogger(logger),
	}
}

func (s *adminService) CreateQuestion(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	text := strings.TrimSpace(input.Text)
	if !domain.ValidText(text) {
		return nil, invalid("question text must be between 1 and %d characters", domain.MaxTextLength)
	}
	if input.PubDate.IsZero() {
		return nil, invalid("pub_date is required")
	}

	question := &domain.Question{
		Text:    text,
		PubDate: input.PubDate.UTC(),
	}

	for _, choiceText := range input.Choices {
		choiceText = strings.TrimSpace(choiceText)
		if choiceText == "" {
			continue
		}
		if !domain.ValidText(choiceText) {
			return nil, invalid("choice text must be at most %d characters", domain.MaxTextLength)
		}
		question.Choices = append(question.Choices, domain.Choice{Text: choiceText})
	}

	if err := s.questionRepo.Save(ctx, question); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "question created", "question_id", question.ID, "choices", len(question.Choices))
	return question, nil
}

func (s *adminService) GetQuestion(ctx context.Context, id int64) (*domain.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

func (s *adminService) UpdateQuestion(ctx context.Context, input ports.UpdateQuestionInput) (*domain.Question, error) {
	text := strings.TrimSpace(input.Text)
	if !domain.ValidText(text) {
		return nil, invalid("question text must be between 1 and %d characters", domain.MaxTextLength)
	}
	if input.PubDate.IsZero() {
		return nil, invalid("pub_date is required")
	}

	question := &domain.Question{
		ID:      input.ID,
		Text:    text,
		PubDate: input.PubDate.UTC(),
	}
	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, err
	}

	return s.questionRepo.GetByID(ctx, input.ID)
}

func (s *adminService) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "question deleted", "question_id", id)
	return nil
}

func (s *adminService) ListQuestions(ctx context.Context, input ports.ListQuestionsInput) ([]ports.QuestionSummary, error) {
	now := s.clock.Now()
	questions, err := s.questionRepo.Search(ctx, ports.QuestionFilter{
		Query:     strings.TrimSpace(input.Query),
		Published: input.Published,
		Now:       now,
		Limit:     AdminPageSize,
		Offset:    offset(input.Page),
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.QuestionSummary, 0, len(questions))
	for _, q := range questions {
		summaries = append(summaries, ports.QuestionSummary{
			Question:          q,
			PublishedRecently: q.WasPublishedRecently(now),
		})
	}
	return summaries, nil
}

func (s *adminService) AddChoice(ctx context.Context, input ports.ChoiceInput) (*domain.Choice, error) {
	choice, err := validChoice(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.questionRepo.GetByID(ctx, input.QuestionID); err != nil {
		return nil, err
	}

	if err := s.choiceRepo.Save(ctx, choice); err != nil {
		return nil, err
	}
	return choice, nil
}

func (s *adminService) UpdateChoice(ctx context.Context, input ports.ChoiceInput) (*domain.Choice, error) {
	existing, err := s.choiceRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.QuestionID == 0 {
		input.QuestionID = existing.QuestionID
	}

	choice, err := validChoice(input)
	if err != nil {
		return nil, err
	}
	choice.ID = existing.ID

	if choice.QuestionID != existing.QuestionID {
		if _, err := s.questionRepo.GetByID(ctx, choice.QuestionID); err != nil {
			return nil, err
		}
	}

	if err := s.choiceRepo.Update(ctx, choice); err != nil {
		return nil, err
	}
	return choice, nil
}

func (s *adminService) DeleteChoice(ctx context.Context, id int64) error {
	return s.choiceRepo.Delete(ctx, id)
}

func (s *adminService) ListChoices(ctx context.Context, input ports.ListChoicesInput) ([]domain.Choice, error) {
	return s.choiceRepo.Search(ctx, ports.ChoiceFilter{
		Query:      strings.TrimSpace(input.Query),
		QuestionID: input.QuestionID,
		Limit:      AdminPageSize,
		Offset:     offset(input.Page),
	})
}

func validChoice(input ports.ChoiceInput) (*domain.Choice, error) {
	text := strings.TrimSpace(input.Text)
	if !domain.ValidText(text) {
		return nil, invalid("choice text must be between 1 and %d characters", domain.MaxTextLength)
	}
	if input.Votes < 0 {
		return nil, invalid("votes must not be negative")
	}
	if input.QuestionID <= 0 {
		return nil, invalid("question_id is required")
	}

	return &domain.Choice{
		QuestionID: input.QuestionID,
		Text:       text,
		Votes:      input.Votes,
	}, nil
}

func offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * AdminPageSize
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
