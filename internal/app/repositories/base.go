package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// notDeleted applies the uniform soft-delete filter. Every read in this
// package goes through it so removed rows never leak into results.
func notDeleted(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	return q.Where("deleted_at IS NULL")
}

// notDeletedIn filters soft-deleted rows of a specific (aliased) table
// inside a join.
func notDeletedIn(q squirrel.SelectBuilder, table string) squirrel.SelectBuilder {
	return q.Where(table + ".deleted_at IS NULL")
}

// softDelete stamps deleted_at on a row instead of removing it.
// Returns false when no live row matched the id.
func softDelete(ctx context.Context, db *pgxpool.Pool, table string, id int64) (bool, error) {
	query := squirrel.Update(table).
		Set("deleted_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	result, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
