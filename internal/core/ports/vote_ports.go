package ports

import (
	"context"

	"github.com/shaonsust/poll-app/internal/core/domain"
)

type VoteInput struct {
	QuestionID string
	ChoiceID   string
}

type VoteService interface {
	// Vote returns the question voted on; with ErrInvalidChoice it is still
	// returned so the caller can redisplay it.
	Vote(ctx context.Context, input VoteInput) (*domain.Question, error)
}
