package ports

import (
	"context"
	"time"

	"github.com/shaonsust/poll-app/internal/core/domain"
)

type QuestionFilter struct {
	Query string
	// Published narrows the listing when set; nil lists every question.
	Published *bool
	Now       time.Time
	Limit     int
	Offset    int
}

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Question, error)
	GetPublished(ctx context.Context, id int64, now time.Time) (*domain.Question, error)
	ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error)
	GetAll(ctx context.Context) ([]*domain.Question, error)
	Search(ctx context.Context, filter QuestionFilter) ([]*domain.Question, error)
	Ping(ctx context.Context) error
}

type PollService interface {
	LatestQuestions(ctx context.Context) ([]*domain.Question, error)
	GetQuestion(ctx context.Context, id string) (*domain.Question, error)
}
