package services

import (
	"context"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

// IndexSize is the number of questions shown on the index page.
const IndexSize = 5

type pollService struct {
	repo  ports.QuestionRepository
	clock ports.Clock
}

func NewPollService(repo ports.QuestionRepository, clock ports.Clock) ports.PollService {
	return &pollService{
		repo:  repo,
		clock: clock,
	}
}

func (s *pollService) LatestQuestions(ctx context.Context) ([]*domain.Question, error) {
	return s.repo.ListPublished(ctx, s.clock.Now(), IndexSize)
}

// GetQuestion returns a published question. Unknown, malformed and
// unpublished ids all yield domain.ErrQuestionNotFound.
func (s *pollService) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	questionID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}

	return s.repo.GetPublished(ctx, questionID, s.clock.Now())
}
