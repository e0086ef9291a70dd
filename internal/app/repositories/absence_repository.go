package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// AbsenceRepository handles database operations for absences
type AbsenceRepository struct {
	db *pgxpool.Pool
}

// NewAbsenceRepository creates a new AbsenceRepository
func NewAbsenceRepository(db *pgxpool.Pool) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

var absenceColumns = []string{
	"id", "score_id", "person_id", "subject_id", "absent_on", "excused",
	"created_at", "updated_at",
}

// GetAll retrieves absences with optional filters and pagination
func (r *AbsenceRepository) GetAll(ctx context.Context, personID, subjectID *int64, page, pageSize int) ([]models.Absence, int64, error) {
	query := notDeleted(squirrel.Select(absenceColumns...).
		From("absences").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("absent_on DESC", "id ASC")

	if personID != nil {
		query = query.Where("person_id = ?", *personID)
	}
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
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

	var items []models.Absence
	var total int64

	for rows.Next() {
		var a models.Absence
		err := rows.Scan(&a.ID, &a.ScoreID, &a.PersonID, &a.SubjectID, &a.AbsentOn, &a.Excused,
			&a.CreatedAt, &a.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, a)
	}

	return items, total, nil
}

// GetByID retrieves an absence by ID
func (r *AbsenceRepository) GetByID(ctx context.Context, id int64) (*models.Absence, error) {
	query := notDeleted(squirrel.Select(absenceColumns...).
		From("absences").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var a models.Absence
	err = r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.ScoreID, &a.PersonID, &a.SubjectID,
		&a.AbsentOn, &a.Excused, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &a, nil
}

// CountInRange counts a student's live absences for a subject inside a date
// range, split by the excused flag.
func (r *AbsenceRepository) CountInRange(ctx context.Context, personID, subjectID int64, from, to time.Time) (excused, unexcused int, err error) {
	sql := `SELECT
		COUNT(*) FILTER (WHERE excused),
		COUNT(*) FILTER (WHERE NOT excused)
	FROM absences
	WHERE person_id = $1
	  AND subject_id = $2
	  AND absent_on BETWEEN $3 AND $4
	  AND deleted_at IS NULL`

	err = r.db.QueryRow(ctx, sql, personID, subjectID, from, to).Scan(&excused, &unexcused)
	if err != nil {
		return 0, 0, fmt.Errorf("error executing query: %w", err)
	}

	return excused, unexcused, nil
}

// CountForSubject counts a student's live absences for a subject without a
// date bound, used on class rosters.
func (r *AbsenceRepository) CountForSubject(ctx context.Context, personID, subjectID int64) (int, error) {
	query := notDeleted(squirrel.Select("COUNT(*)").
		From("absences").
		Where("person_id = ?", personID).
		Where("subject_id = ?", subjectID).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}

// Create creates a new absence
func (r *AbsenceRepository) Create(ctx context.Context, a *models.Absence) (int64, error) {
	query := squirrel.Insert("absences").
		Columns("score_id", "person_id", "subject_id", "absent_on", "excused").
		Values(a.ScoreID, a.PersonID, a.SubjectID, a.AbsentOn, a.Excused).
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

// Update toggles the excused flag of an absence
func (r *AbsenceRepository) Update(ctx context.Context, a *models.Absence) error {
	query := squirrel.Update("absences").
		Set("excused", a.Excused).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", a.ID).
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

// Delete soft-deletes an absence
func (r *AbsenceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "absences", id)
}
