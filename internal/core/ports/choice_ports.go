package ports

import (
	"context"

	"github.com/shaonsust/poll-app/internal/core/domain"
)

type ChoiceFilter struct {
	Query      string
	QuestionID int64
	Limit      int
	Offset     int
}

type ChoiceRepository interface {
	Save(ctx context.Context, choice *domain.Choice) error
	Update(ctx context.Context, choice *domain.Choice) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Choice, error)
	ListByQuestion(ctx context.Context, questionID int64) ([]domain.Choice, error)
	Search(ctx context.Context, filter ChoiceFilter) ([]domain.Choice, error)
	// IncrementVotes adds one vote to the choice if it belongs to the question.
	IncrementVotes(ctx context.Context, questionID, choiceID int64) error
}
