package repository

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// PreferenceRepository stores per-visitor key/value preferences such as the
// theme flag.
type PreferenceRepository interface {
	Get(ctx context.Context, visitorID, key string) (string, bool, error)
	Set(ctx context.Context, visitorID, key, value string) error
	DeleteVisitor(ctx context.Context, visitorID string) error
}

// AttemptRepository handles finished quiz attempts.
type AttemptRepository interface {
	Insert(ctx context.Context, attempt models.Attempt) (int64, error)
	List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error)
	Count(ctx context.Context, filter models.AttemptFilter) (int, error)
	BestScores(ctx context.Context) ([]models.BestScore, error)
}
