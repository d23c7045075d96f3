package worker

import (
	"context"
	"time"

	"github.com/vytor/quizflash/internal/models"
)

// AttemptStore persists finished attempts.
// This avoids import cycles by not importing the repository package
type AttemptStore interface {
	Insert(ctx context.Context, attempt models.Attempt) (int64, error)
}

// SessionSweeper drops visitor sessions idle for longer than the given duration
// and reports how many were removed.
type SessionSweeper interface {
	Sweep(ctx context.Context, idle time.Duration) int
}
