package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// attemptWhere applies the filter's equality clauses shared by List and Count.
func attemptWhere(query squirrel.SelectBuilder, filter models.AttemptFilter) squirrel.SelectBuilder {
	if filter.VisitorID != "" {
		query = query.Where(squirrel.Eq{"visitor_id": filter.VisitorID})
	}
	if filter.QuizTitle != "" {
		query = query.Where(squirrel.Eq{"quiz_title": filter.QuizTitle})
	}
	return query
}
