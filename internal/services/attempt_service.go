package services

import (
	"context"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

const maxAttemptPage = 100

// AttemptService reads the attempt history
type AttemptService interface {
	ListAttempts(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, int, error)
	BestScores(ctx context.Context) ([]models.BestScore, error)
}

type attemptService struct {
	attemptRepo repository.AttemptRepository
}

// NewAttemptService creates a new AttemptService
func NewAttemptService(attemptRepo repository.AttemptRepository) AttemptService {
	return &attemptService{attemptRepo: attemptRepo}
}

func (s *attemptService) ListAttempts(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing attempts: quiz=%s, limit=%d, offset=%d", filter.QuizTitle, filter.Limit, filter.Offset)

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, errors.NewValidationError("page", "limit and offset must not be negative")
	}
	if filter.Limit == 0 || filter.Limit > maxAttemptPage {
		filter.Limit = maxAttemptPage
	}

	attempts, err := s.attemptRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.attemptRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count attempts: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	return attempts, total, nil
}

func (s *attemptService) BestScores(ctx context.Context) ([]models.BestScore, error) {
	log := logger.FromContext(ctx)

	scores, err := s.attemptRepo.BestScores(ctx)
	if err != nil {
		log.Error("failed to load best scores: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return scores, nil
}
