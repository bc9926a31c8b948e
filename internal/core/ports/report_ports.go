package ports

import (
	"context"

	"github.com/shaonsust/poll-app/internal/core/domain"
)

type ReportService interface {
	SummarizeAll(ctx context.Context) ([]domain.QuestionResult, error)
}
