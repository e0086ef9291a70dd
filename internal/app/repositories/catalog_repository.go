package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// GradeRepository handles database operations for grade levels
type GradeRepository struct {
	db *pgxpool.Pool
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{db: db}
}

// GetAll retrieves all grade levels
func (r *GradeRepository) GetAll(ctx context.Context) ([]models.Grade, error) {
	query := notDeleted(squirrel.Select("id", "name", "level", "created_at", "updated_at").
		From("grades").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var grades []models.Grade
	for rows.Next() {
		var g models.Grade
		if err := rows.Scan(&g.ID, &g.Name, &g.Level, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		grades = append(grades, g)
	}

	return grades, nil
}

// GetByID retrieves a grade level by ID
func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*models.Grade, error) {
	query := notDeleted(squirrel.Select("id", "name", "level", "created_at", "updated_at").
		From("grades").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var g models.Grade
	err = r.db.QueryRow(ctx, sql, args...).Scan(&g.ID, &g.Name, &g.Level, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &g, nil
}

// Create creates a new grade level
func (r *GradeRepository) Create(ctx context.Context, g *models.Grade) (int64, error) {
	query := squirrel.Insert("grades").
		Columns("name", "level").
		Values(g.Name, g.Level).
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

// Update updates a grade level
func (r *GradeRepository) Update(ctx context.Context, g *models.Grade) error {
	query := squirrel.Update("grades").
		Set("name", g.Name).
		Set("level", g.Level).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", g.ID).
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

// Delete soft-deletes a grade level
func (r *GradeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "grades", id)
}

// ShiftRepository handles the school shift catalog
type ShiftRepository struct {
	db *pgxpool.Pool
}

// NewShiftRepository creates a new ShiftRepository
func NewShiftRepository(db *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// GetAll retrieves all shifts
func (r *ShiftRepository) GetAll(ctx context.Context) ([]models.Shift, error) {
	query := notDeleted(squirrel.Select("id", "name", "created_at", "updated_at").
		From("shifts").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var s models.Shift
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, nil
}

// GetByID retrieves a shift by ID
func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*models.Shift, error) {
	query := notDeleted(squirrel.Select("id", "name", "created_at", "updated_at").
		From("shifts").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var s models.Shift
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &s, nil
}

// Create creates a new shift
func (r *ShiftRepository) Create(ctx context.Context, s *models.Shift) (int64, error) {
	query := squirrel.Insert("shifts").
		Columns("name").
		Values(s.Name).
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

// Delete soft-deletes a shift
func (r *ShiftRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "shifts", id)
}

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// GetAll retrieves all subjects
func (r *SubjectRepository) GetAll(ctx context.Context) ([]models.Subject, error) {
	query := notDeleted(squirrel.Select("id", "name", "weekly_hours", "created_at", "updated_at").
		From("subjects").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("name ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.WeeklyHours, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		subjects = append(subjects, s)
	}

	return subjects, nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := notDeleted(squirrel.Select("id", "name", "weekly_hours", "created_at", "updated_at").
		From("subjects").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var s models.Subject
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Name, &s.WeeklyHours, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &s, nil
}

// Create creates a new subject
func (r *SubjectRepository) Create(ctx context.Context, s *models.Subject) (int64, error) {
	query := squirrel.Insert("subjects").
		Columns("name", "weekly_hours").
		Values(s.Name, s.WeeklyHours).
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

// Update updates a subject
func (r *SubjectRepository) Update(ctx context.Context, s *models.Subject) error {
	query := squirrel.Update("subjects").
		Set("name", s.Name).
		Set("weekly_hours", s.WeeklyHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", s.ID).
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

// Delete soft-deletes a subject
func (r *SubjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "subjects", id)
}

// YearStateRepository handles the school year state catalog
type YearStateRepository struct {
	db *pgxpool.Pool
}

// NewYearStateRepository creates a new YearStateRepository
func NewYearStateRepository(db *pgxpool.Pool) *YearStateRepository {
	return &YearStateRepository{db: db}
}

// GetAll retrieves all year states
func (r *YearStateRepository) GetAll(ctx context.Context) ([]models.YearState, error) {
	query := notDeleted(squirrel.Select("id", "name", "created_at", "updated_at").
		From("year_states").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var states []models.YearState
	for rows.Next() {
		var s models.YearState
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		states = append(states, s)
	}

	return states, nil
}

// GetByName retrieves a year state by its name
func (r *YearStateRepository) GetByName(ctx context.Context, name string) (*models.YearState, error) {
	query := notDeleted(squirrel.Select("id", "name", "created_at", "updated_at").
		From("year_states").
		Where("name = ?", name).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var s models.YearState
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &s, nil
}

// Create creates a new year state
func (r *YearStateRepository) Create(ctx context.Context, s *models.YearState) (int64, error) {
	query := squirrel.Insert("year_states").
		Columns("name").
		Values(s.Name).
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
