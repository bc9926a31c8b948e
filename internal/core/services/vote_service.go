package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

type voteService struct {
	questionRepo ports.QuestionRepository
	choiceRepo   ports.ChoiceRepository
	logger       *slog.Logger
}

func NewVoteService(questionRepo ports.QuestionRepository, choiceRepo ports.ChoiceRepository, logger *slog.Logger) ports.VoteService {
	return &voteService{
		questionRepo: questionRepo,
		choiceRepo:   choiceRepo,
		logger:       resolveLogger(logger),
	}
}

func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Question, error) {
	questionID, ok := parseID(input.QuestionID)
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	choiceID, ok := parseID(input.ChoiceID)
	if !ok || !question.HasChoice(choiceID) {
		return question, domain.ErrInvalidChoice
	}

	if err := s.choiceRepo.IncrementVotes(ctx, questionID, choiceID); err != nil {
		// The choice may have been deleted since the question was loaded.
		if errors.Is(err, domain.ErrChoiceNotFound) {
			return question, domain.ErrInvalidChoice
		}
		return nil, err
	}

	s.logger.DebugContext(ctx, "vote recorded", "question_id", questionID, "choice_id", choiceID)
	return question, nil
}
