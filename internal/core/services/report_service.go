package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

type reportService struct {
	questionRepo ports.QuestionRepository
	choiceRepo   ports.ChoiceRepository
}

func NewReportService(questionRepo ports.QuestionRepository, choiceRepo ports.ChoiceRepository) ports.ReportService {
	return &reportService{
		questionRepo: questionRepo,
		choiceRepo:   choiceRepo,
	}
}

// SummarizeAll tallies every question, newest first.
func (s *reportService) SummarizeAll(ctx context.Context) ([]domain.QuestionResult, error) {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch all questions: %w", err)
	}

	results := make([]domain.QuestionResult, len(questions))

	var wg sync.WaitGroup
	errChan := make(chan error, len(questions))

	for i, question := range questions {
		wg.Add(1)
		go func(i int, q domain.Question) {
			defer wg.Done()
			choices, err := s.choiceRepo.ListByQuestion(ctx, q.ID)
			if err != nil {
				errChan <- fmt.Errorf("failed to summarize question %d: %w", q.ID, err)
				return
			}
			q.Choices = choices
			results[i] = domain.QuestionResult{
				Question:   q,
				TotalVotes: q.TotalVotes(),
				Choices:    q.Results(),
			}
		}(i, *question)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
