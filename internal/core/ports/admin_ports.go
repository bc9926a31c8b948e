package ports

import (
	"context"
	"time"

	"github.com/shaonsust/poll-app/internal/core/domain"
)

type CreateQuestionInput struct {
	Text    string
	PubDate time.Time
	Choices []string
}

type UpdateQuestionInput struct {
	ID      int64
	Text    string
	PubDate time.Time
}

type ChoiceInput struct {
	ID         int64
	QuestionID int64
	Text       string
	Votes      int64
}

type ListQuestionsInput struct {
	Page      int
	Query     string
	Published *bool
}

type ListChoicesInput struct {
	Page       int
	Query      string
	QuestionID int64
}

// QuestionSummary is an admin listing row.
type QuestionSummary struct {
	*domain.Question
	PublishedRecently bool `json:"published_recently"`
}

type AdminService interface {
	CreateQuestion(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	GetQuestion(ctx context.Context, id int64) (*domain.Question, error)
	UpdateQuestion(ctx context.Context, input UpdateQuestionInput) (*domain.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
	ListQuestions(ctx context.Context, input ListQuestionsInput) ([]QuestionSummary, error)
	AddChoice(ctx context.Context, input ChoiceInput) (*domain.Choice, error)
	UpdateChoice(ctx context.Context, input ChoiceInput) (*domain.Choice, error)
	DeleteChoice(ctx context.Context, id int64) error
	ListChoices(ctx context.Context, input ListChoicesInput) ([]domain.Choice, error)
}
