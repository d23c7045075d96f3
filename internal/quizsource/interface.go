package quizsource

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// Loader resolves a dataset location into validated quizzes.
type Loader interface {
	Load(ctx context.Context, location string) ([]models.Quiz, error)
}

// Ensure Client implements the interface
var _ Loader = (*Client)(nil)
