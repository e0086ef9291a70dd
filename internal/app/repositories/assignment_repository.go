package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// AssignmentFilter narrows assignment listings
type AssignmentFilter struct {
	TeacherPersonID *int64
	SubjectID       *int64
	GradeID         *int64
	GroupID         *int64
	SchoolYearID    *int64
}

// AssignmentRepository handles database operations for teacher assignments
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

var assignmentColumns = []string{
	"id", "teacher_person_id", "subject_id", "grade_id", "group_id",
	"school_year_id", "created_at", "updated_at",
}

func scanAssignment(row pgx.Row) (*models.TeacherAssignment, error) {
	var a models.TeacherAssignment
	err := row.Scan(&a.ID, &a.TeacherPersonID, &a.SubjectID, &a.GradeID, &a.GroupID,
		&a.SchoolYearID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &a, nil
}

func (r *AssignmentRepository) scanRows(rows pgx.Rows, withTotal bool) ([]models.TeacherAssignment, int64, error) {
	defer rows.Close()

	var items []models.TeacherAssignment
	var total int64

	for rows.Next() {
		var a models.TeacherAssignment
		dest := []interface{}{&a.ID, &a.TeacherPersonID, &a.SubjectID, &a.GradeID, &a.GroupID,
			&a.SchoolYearID, &a.CreatedAt, &a.UpdatedAt}
		if withTotal {
			dest = append(dest, &total)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, a)
	}

	return items, total, nil
}

// GetAll retrieves assignments with filtering and pagination
func (r *AssignmentRepository) GetAll(ctx context.Context, filter AssignmentFilter, page, pageSize int) ([]models.TeacherAssignment, int64, error) {
	query := notDeleted(squirrel.Select(assignmentColumns...).
		From("teacher_assignments").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	if filter.TeacherPersonID != nil {
		query = query.Where("teacher_person_id = ?", *filter.TeacherPersonID)
	}
	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}
	if filter.GradeID != nil {
		query = query.Where("grade_id = ?", *filter.GradeID)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.SchoolYearID != nil {
		query = query.Where("school_year_id = ?", *filter.SchoolYearID)
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

	return r.scanRows(rows, true)
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.TeacherAssignment, error) {
	query := notDeleted(squirrel.Select(assignmentColumns...).
		From("teacher_assignments").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanAssignment(r.db.QueryRow(ctx, sql, args...))
}

// FindReusable looks for the oldest live row of the same subject whose open
// fields can absorb the requested values, so creation completes a partial
// assignment instead of inserting a near-duplicate.
func (r *AssignmentRepository) FindReusable(ctx context.Context, a *models.TeacherAssignment) (*models.TeacherAssignment, error) {
	query := notDeleted(squirrel.Select(assignmentColumns...).
		From("teacher_assignments").
		Where("subject_id = ?", a.SubjectID).
		Where("(teacher_person_id IS NULL OR teacher_person_id IS NOT DISTINCT FROM ?)", a.TeacherPersonID).
		Where("(grade_id IS NULL OR grade_id IS NOT DISTINCT FROM ?)", a.GradeID).
		Where("(group_id IS NULL OR group_id IS NOT DISTINCT FROM ?)", a.GroupID).
		Where("(school_year_id IS NULL OR school_year_id IS NOT DISTINCT FROM ?)", a.SchoolYearID).
		Where("(teacher_person_id IS NULL OR grade_id IS NULL OR group_id IS NULL OR school_year_id IS NULL)").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC").
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanAssignment(r.db.QueryRow(ctx, sql, args...))
}

// GetSiblings returns the live rows sharing teacher, subject, grade and
// year with the given assignment, excluding the assignment itself. NULL
// teacher or year match only NULL, so open rows never count as siblings
// of concrete ones.
func (r *AssignmentRepository) GetSiblings(ctx context.Context, a *models.TeacherAssignment, gradeID, schoolYearID int64) ([]models.TeacherAssignment, error) {
	query := notDeleted(squirrel.Select(assignmentColumns...).
		From("teacher_assignments").
		Where("teacher_person_id IS NOT DISTINCT FROM ?", a.TeacherPersonID).
		Where("subject_id = ?", a.SubjectID).
		Where("grade_id = ?", gradeID).
		Where("school_year_id = ?", schoolYearID).
		Where("id <> ?", a.ID).
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

	items, _, err := r.scanRows(rows, false)
	return items, err
}

// GetAllLive returns every live assignment, oldest first
func (r *AssignmentRepository) GetAllLive(ctx context.Context) ([]models.TeacherAssignment, error) {
	query := notDeleted(squirrel.Select(assignmentColumns...).
		From("teacher_assignments").
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

	items, _, err := r.scanRows(rows, false)
	return items, err
}

// CountDuplicates counts live rows that collide on the full assignment key.
// Used by the normalize pass to report rows the unique index would reject
// if NULLs compared equal.
func (r *AssignmentRepository) CountDuplicates(ctx context.Context) (int64, error) {
	sql := `SELECT COALESCE(SUM(c - 1), 0) FROM (
		SELECT COUNT(*) AS c FROM teacher_assignments
		WHERE deleted_at IS NULL
		GROUP BY teacher_person_id, subject_id, grade_id, group_id, school_year_id
		HAVING COUNT(*) > 1
	) d`

	var n int64
	if err := r.db.QueryRow(ctx, sql).Scan(&n); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return n, nil
}

// Create creates a new assignment
func (r *AssignmentRepository) Create(ctx context.Context, a *models.TeacherAssignment) (int64, error) {
	query := squirrel.Insert("teacher_assignments").
		Columns("teacher_person_id", "subject_id", "grade_id", "group_id", "school_year_id").
		Values(a.TeacherPersonID, a.SubjectID, a.GradeID, a.GroupID, a.SchoolYearID).
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

// Update updates an assignment's fields
func (r *AssignmentRepository) Update(ctx context.Context, a *models.TeacherAssignment) error {
	query := squirrel.Update("teacher_assignments").
		Set("teacher_person_id", a.TeacherPersonID).
		Set("subject_id", a.SubjectID).
		Set("grade_id", a.GradeID).
		Set("group_id", a.GroupID).
		Set("school_year_id", a.SchoolYearID).
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

// Delete soft-deletes an assignment
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "teacher_assignments", id)
}

// HasScores reports whether the teacher already registered live scores for
// the subject in the school year. Deleting such an assignment would orphan
// grading history.
func (r *AssignmentRepository) HasScores(ctx context.Context, teacherPersonID *int64, subjectID int64, schoolYearID *int64) (bool, error) {
	if teacherPersonID == nil || schoolYearID == nil {
		return false, nil
	}

	sql := `SELECT EXISTS (
		SELECT 1 FROM scores s
		JOIN users u ON u.id = s.teacher_user_id
		WHERE u.person_id = $1
		  AND s.subject_id = $2
		  AND s.school_year_id = $3
		  AND s.deleted_at IS NULL
	)`

	var exists bool
	if err := r.db.QueryRow(ctx, sql, *teacherPersonID, subjectID, *schoolYearID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return exists, nil
}
