package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/repository"
)

type preferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository implementation
func NewPreferenceRepository(db *sql.DB) repository.PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")

	query, args, err := sqlBuilder.Select("value").
		From("preferences").
		Where("visitor_id = ? AND key = ?", visitorID, key).
		ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("preference %s not set for visitor %s", key, visitorID)
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to get preference %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (r *preferenceRepository) Set(ctx context.Context, visitorID, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("setting preference %s=%s for visitor %s", key, value, visitorID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO preferences (visitor_id, key, value, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(visitor_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`, visitorID, key, value)
	if err != nil {
		log.Error("failed to set preference %s: %v", key, err)
	}
	return err
}

func (r *preferenceRepository) DeleteVisitor(ctx context.Context, visitorID string) error {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("deleting preferences for visitor %s", visitorID)

	query, args, err := sqlBuilder.Delete("preferences").
		Where("visitor_id = ?", visitorID).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to delete preferences: %v", err)
		return err
	}
	return nil
}
