package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: quiz=%s, score=%d/%d", a.QuizTitle, a.Score, a.Total)

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := sqlBuilder.Insert("attempts").
			Columns("visitor_id", "quiz_title", "score", "total", "cheat_active", "finished_at").
			Values(a.VisitorID, a.QuizTitle, a.Score, a.Total, a.CheatActive, a.FinishedAt).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	log.Debug("attempt inserted: id=%d", id)
	return id, nil
}

func (r *attemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: visitor=%s, quiz=%s", filter.VisitorID, filter.QuizTitle)

	query := sqlBuilder.Select(
		"id", "visitor_id", "quiz_title", "score", "total", "cheat_active", "finished_at",
	).From("attempts")
	query = attemptWhere(query, filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.OrderBy("finished_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var a models.Attempt
		if err := rows.Scan(&a.ID, &a.VisitorID, &a.QuizTitle, &a.Score, &a.Total, &a.CheatActive, &a.FinishedAt); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, a)
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, rows.Err()
}

func (r *attemptRepository) Count(ctx context.Context, filter models.AttemptFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	query := attemptWhere(sqlBuilder.Select("COUNT(*)").From("attempts"), filter)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count attempts: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *attemptRepository) BestScores(ctx context.Context) ([]models.BestScore, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	sqlStr, args, err := sqlBuilder.Select(
		"quiz_title", "MAX(score)", "MAX(total)", "COUNT(*)",
	).From("attempts").
		Where(squirrel.Eq{"cheat_active": false}).
		GroupBy("quiz_title").
		OrderBy("quiz_title ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build best scores query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query best scores: %v", err)
		return nil, err
	}
	defer rows.Close()

	var scores []models.BestScore
	for rows.Next() {
		var s models.BestScore
		if err := rows.Scan(&s.QuizTitle, &s.Score, &s.Total, &s.Attempts); err != nil {
			log.Error("failed to scan best score row: %v", err)
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
