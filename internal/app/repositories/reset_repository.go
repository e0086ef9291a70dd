package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// PasswordResetRepository handles database operations for recovery codes
type PasswordResetRepository struct {
	db *pgxpool.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create stores a new recovery code
func (r *PasswordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) (int64, error) {
	query := squirrel.Insert("password_resets").
		Columns("user_id", "code", "expires_at", "used").
		Values(reset.UserID, reset.Code, reset.ExpiresAt, reset.Used).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetValid returns the newest unused, unexpired code matching user and code
func (r *PasswordResetRepository) GetValid(ctx context.Context, userID int64, code string) (*models.PasswordReset, error) {
	query := squirrel.Select("id", "user_id", "code", "expires_at", "used", "created_at").
		From("password_resets").
		Where("user_id = ?", userID).
		Where("code = ?", code).
		Where("used = FALSE").
		Where("expires_at > NOW()").
		OrderBy("id DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var reset models.PasswordReset
	err = r.db.QueryRow(ctx, sql, args...).Scan(&reset.ID, &reset.UserID, &reset.Code,
		&reset.ExpiresAt, &reset.Used, &reset.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &reset, nil
}

// MarkUsed consumes a recovery code
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id int64) error {
	query := squirrel.Update("password_resets").
		Set("used", true).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// InvalidateForUser consumes every outstanding code of a user, so issuing
// a new one leaves at most a single live code.
func (r *PasswordResetRepository) InvalidateForUser(ctx context.Context, userID int64) error {
	query := squirrel.Update("password_resets").
		Set("used", true).
		Where("user_id = ?", userID).
		Where("used = FALSE").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}
