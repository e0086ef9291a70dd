package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// ScoreRepository handles database operations for scores
type ScoreRepository struct {
	db *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository
func NewScoreRepository(db *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{db: db}
}

var scoreColumns = []string{
	"id", "person_id", "subject_id", "period_id", "school_year_id",
	"teacher_user_id", "value", "created_at", "updated_at",
}

func scanScore(row pgx.Row) (*models.Score, error) {
	var s models.Score
	err := row.Scan(&s.ID, &s.PersonID, &s.SubjectID, &s.PeriodID, &s.SchoolYearID,
		&s.TeacherUserID, &s.Value, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &s, nil
}

// GetAll retrieves scores with optional filters and pagination
func (r *ScoreRepository) GetAll(ctx context.Context, personID, subjectID, periodID, schoolYearID *int64, page, pageSize int) ([]models.Score, int64, error) {
	query := notDeleted(squirrel.Select(scoreColumns...).
		From("scores").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	if personID != nil {
		query = query.Where("person_id = ?", *personID)
	}
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}
	if periodID != nil {
		query = query.Where("period_id = ?", *periodID)
	}
	if schoolYearID != nil {
		query = query.Where("school_year_id = ?", *schoolYearID)
	}

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

	var items []models.Score
	var total int64

	for rows.Next() {
		var s models.Score
		err := rows.Scan(&s.ID, &s.PersonID, &s.SubjectID, &s.PeriodID, &s.SchoolYearID,
			&s.TeacherUserID, &s.Value, &s.CreatedAt, &s.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, s)
	}

	return items, total, nil
}

// GetByID retrieves a score by ID
func (r *ScoreRepository) GetByID(ctx context.Context, id int64) (*models.Score, error) {
	query := notDeleted(squirrel.Select(scoreColumns...).
		From("scores").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanScore(r.db.QueryRow(ctx, sql, args...))
}

// GetForStudentsInPeriod returns the live scores of the given students for
// one period and year, used when assembling report card contexts.
func (r *ScoreRepository) GetForStudentsInPeriod(ctx context.Context, personIDs []int64, periodID, schoolYearID int64) ([]models.Score, error) {
	query := notDeleted(squirrel.Select(scoreColumns...).
		From("scores").
		Where("person_id = ANY(?)", personIDs).
		Where("period_id = ?", periodID).
		Where("school_year_id = ?", schoolYearID).
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

	var items []models.Score
	for rows.Next() {
		var s models.Score
		err := rows.Scan(&s.ID, &s.PersonID, &s.SubjectID, &s.PeriodID, &s.SchoolYearID,
			&s.TeacherUserID, &s.Value, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, s)
	}

	return items, nil
}

// Create creates a new score
func (r *ScoreRepository) Create(ctx context.Context, s *models.Score) (int64, error) {
	query := squirrel.Insert("scores").
		Columns("person_id", "subject_id", "period_id", "school_year_id", "teacher_user_id", "value").
		Values(s.PersonID, s.SubjectID, s.PeriodID, s.SchoolYearID, s.TeacherUserID, s.Value).
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

// Update updates a score's value
func (r *ScoreRepository) Update(ctx context.Context, s *models.Score) error {
	query := squirrel.Update("scores").
		Set("value", s.Value).
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

// Delete soft-deletes a score
func (r *ScoreRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "scores", id)
}
