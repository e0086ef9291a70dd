package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "u.id, u.person_id, u.username, u.password_hash, u.is_teacher, u.created_at, u.updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.PersonID, &u.Username, &u.Password, &u.IsTeacher, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &u, nil
}

// GetAll retrieves all users with pagination
func (r *UserRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	query := squirrel.Select("u.id", "u.person_id", "u.username", "u.password_hash", "u.is_teacher", "u.created_at", "u.updated_at").
		From("users u").
		Where("u.deleted_at IS NULL").
		OrderBy("u.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	offset := (page - 1) * pageSize
	query = query.Limit(uint64(pageSize)).Offset(uint64(offset))

	countQuery := query.Column("COUNT(*) OVER()")
	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var users []models.User
	var total int64

	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.PersonID, &u.Username, &u.Password, &u.IsTeacher, &u.CreatedAt, &u.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, u)
	}

	return users, total, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql := fmt.Sprintf("SELECT %s FROM users u WHERE u.id = $1 AND u.deleted_at IS NULL", userColumns)
	return scanUser(r.db.QueryRow(ctx, sql, id))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	sql := fmt.Sprintf("SELECT %s FROM users u WHERE u.username = $1 AND u.deleted_at IS NULL", userColumns)
	return scanUser(r.db.QueryRow(ctx, sql, username))
}

// GetByEmail retrieves a user through the linked person's email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM users u
		JOIN people p ON p.id = u.person_id
		WHERE LOWER(p.email) = LOWER($1) AND u.deleted_at IS NULL AND p.deleted_at IS NULL`, userColumns)
	return scanUser(r.db.QueryRow(ctx, sql, email))
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := squirrel.Insert("users").
		Columns("person_id", "username", "password_hash", "is_teacher").
		Values(user.PersonID, user.Username, user.Password, user.IsTeacher).
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

// Update updates a user's profile fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := squirrel.Update("users").
		Set("person_id", user.PersonID).
		Set("username", user.Username).
		Set("is_teacher", user.IsTeacher).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", user.ID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// UpdatePassword replaces the user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := squirrel.Update("users").
		Set("password_hash", passwordHash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete soft-deletes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "users", id)
}
