package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

// RecordAttemptJob stores one finished attempt.
type RecordAttemptJob struct {
	Store   AttemptStore
	Attempt models.Attempt
}

func (j *RecordAttemptJob) Name() string { return "record_attempt" }

func (j *RecordAttemptJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"visitor_id": j.Attempt.VisitorID,
		"quiz":       j.Attempt.QuizTitle,
	})

	id, err := j.Store.Insert(ctx, j.Attempt)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	log.Info("recorded attempt %d: %d/%d", id, j.Attempt.Score, j.Attempt.Total)
	return nil
}

// SweepSessionsJob evicts idle visitor sessions.
type SweepSessionsJob struct {
	Sweeper SessionSweeper
	Idle    time.Duration
}

func (j *SweepSessionsJob) Name() string { return "sweep_sessions" }

func (j *SweepSessionsJob) Run(ctx context.Context) error {
	removed := j.Sweeper.Sweep(ctx, j.Idle)
	if removed > 0 {
		logger.FromContext(ctx).Info("swept %d idle sessions", removed)
	}
	return nil
}
