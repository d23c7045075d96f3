package jobs

import (
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool  *worker.Pool
	store worker.AttemptStore
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, store worker.AttemptStore) JobQueue {
	return &WorkerQueue{
		pool:  pool,
		store: store,
	}
}

func (q *WorkerQueue) EnqueueAttempt(attempt models.Attempt) error {
	return q.pool.Submit(&worker.RecordAttemptJob{
		Store:   q.store,
		Attempt: attempt,
	})
}
