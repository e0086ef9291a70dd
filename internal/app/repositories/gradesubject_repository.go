package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// GradeSubjectRepository handles database operations for curriculum rows
type GradeSubjectRepository struct {
	db *pgxpool.Pool
}

// NewGradeSubjectRepository creates a new GradeSubjectRepository
func NewGradeSubjectRepository(db *pgxpool.Pool) *GradeSubjectRepository {
	return &GradeSubjectRepository{db: db}
}

// GetAll retrieves curriculum rows with optional grade/year filters
func (r *GradeSubjectRepository) GetAll(ctx context.Context, gradeID, schoolYearID *int64) ([]models.GradeSubject, error) {
	query := notDeleted(squirrel.Select("id", "grade_id", "subject_id", "school_year_id", "weekly_hours", "created_at", "updated_at").
		From("grade_subjects").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	if gradeID != nil {
		query = query.Where("grade_id = ?", *gradeID)
	}
	if schoolYearID != nil {
		query = query.Where("school_year_id = ?", *schoolYearID)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var items []models.GradeSubject
	for rows.Next() {
		var gs models.GradeSubject
		err := rows.Scan(&gs.ID, &gs.GradeID, &gs.SubjectID, &gs.SchoolYearID, &gs.WeeklyHours, &gs.CreatedAt, &gs.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, gs)
	}

	return items, nil
}

// GetByID retrieves a curriculum row by ID
func (r *GradeSubjectRepository) GetByID(ctx context.Context, id int64) (*models.GradeSubject, error) {
	query := notDeleted(squirrel.Select("id", "grade_id", "subject_id", "school_year_id", "weekly_hours", "created_at", "updated_at").
		From("grade_subjects").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var gs models.GradeSubject
	err = r.db.QueryRow(ctx, sql, args...).Scan(&gs.ID, &gs.GradeID, &gs.SubjectID, &gs.SchoolYearID, &gs.WeeklyHours, &gs.CreatedAt, &gs.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &gs, nil
}

// GetWeeklyHours returns the curriculum override of weekly hours for a
// subject in a grade and year, or nil when no override exists.
func (r *GradeSubjectRepository) GetWeeklyHours(ctx context.Context, gradeID, subjectID, schoolYearID int64) (*int, error) {
	query := notDeleted(squirrel.Select("weekly_hours").
		From("grade_subjects").
		Where("grade_id = ?", gradeID).
		Where("subject_id = ?", subjectID).
		Where("school_year_id = ?", schoolYearID).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var hours *int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&hours)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return hours, nil
}

// Create creates a new curriculum row
func (r *GradeSubjectRepository) Create(ctx context.Context, gs *models.GradeSubject) (int64, error) {
	query := squirrel.Insert("grade_subjects").
		Columns("grade_id", "subject_id", "school_year_id", "weekly_hours").
		Values(gs.GradeID, gs.SubjectID, gs.SchoolYearID, gs.WeeklyHours).
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

// Update updates a curriculum row's weekly hours
func (r *GradeSubjectRepository) Update(ctx context.Context, gs *models.GradeSubject) error {
	query := squirrel.Update("grade_subjects").
		Set("weekly_hours", gs.WeeklyHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", gs.ID).
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

// Delete soft-deletes a curriculum row
func (r *GradeSubjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "grade_subjects", id)
}
