package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

var enrollmentColumns = []string{
	"id", "person_id", "group_id", "school_year_id", "active", "enrolled_on",
	"created_at", "updated_at",
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(&e.ID, &e.PersonID, &e.GroupID, &e.SchoolYearID, &e.Active, &e.EnrolledOn,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &e, nil
}

// GetAll retrieves enrollments with optional filters and pagination
func (r *EnrollmentRepository) GetAll(ctx context.Context, personID, groupID, schoolYearID *int64, page, pageSize int) ([]models.Enrollment, int64, error) {
	query := notDeleted(squirrel.Select(enrollmentColumns...).
		From("enrollments").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	if personID != nil {
		query = query.Where("person_id = ?", *personID)
	}
	if groupID != nil {
		query = query.Where("group_id = ?", *groupID)
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

	var items []models.Enrollment
	var total int64

	for rows.Next() {
		var e models.Enrollment
		err := rows.Scan(&e.ID, &e.PersonID, &e.GroupID, &e.SchoolYearID, &e.Active, &e.EnrolledOn,
			&e.CreatedAt, &e.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, e)
	}

	return items, total, nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := notDeleted(squirrel.Select(enrollmentColumns...).
		From("enrollments").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanEnrollment(r.db.QueryRow(ctx, sql, args...))
}

// CountActiveByGroup counts live active enrollments in a group, optionally
// excluding one enrollment (for capacity checks on updates).
func (r *EnrollmentRepository) CountActiveByGroup(ctx context.Context, groupID int64, excludeID *int64) (int, error) {
	query := notDeleted(squirrel.Select("COUNT(*)").
		From("enrollments").
		Where("group_id = ?", groupID).
		Where("active = TRUE").
		PlaceholderFormat(squirrel.Dollar))

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

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

// GetActiveStudentsByGroups returns the active students of the given
// groups with their person data, sorted the way report cards list them.
func (r *EnrollmentRepository) GetActiveStudentsByGroups(ctx context.Context, groupIDs []int64) ([]models.Enrollment, error) {
	query := squirrel.Select(
		"e.id", "e.person_id", "e.group_id", "e.school_year_id", "e.active", "e.enrolled_on",
		"e.created_at", "e.updated_at",
		"p.first_name", "p.last_name", "p.id_number",
		"g.code").
		From("enrollments e").
		Join("people p ON p.id = e.person_id").
		Join("groups g ON g.id = e.group_id").
		Where("e.group_id = ANY(?)", groupIDs).
		Where("e.active = TRUE").
		Where("e.deleted_at IS NULL").
		Where("p.deleted_at IS NULL").
		OrderBy("p.last_name ASC", "p.first_name ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var items []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		var person models.Person
		var group models.Group
		err := rows.Scan(&e.ID, &e.PersonID, &e.GroupID, &e.SchoolYearID, &e.Active, &e.EnrolledOn,
			&e.CreatedAt, &e.UpdatedAt,
			&person.FirstName, &person.LastName, &person.IDNumber,
			&group.Code)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		person.ID = e.PersonID
		group.ID = e.GroupID
		e.Person = &person
		e.Group = &group
		items = append(items, e)
	}

	return items, nil
}

// Create creates a new enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) (int64, error) {
	query := squirrel.Insert("enrollments").
		Columns("person_id", "group_id", "school_year_id", "active", "enrolled_on").
		Values(e.PersonID, e.GroupID, e.SchoolYearID, e.Active, e.EnrolledOn).
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

// Update updates an enrollment's group and active flag
func (r *EnrollmentRepository) Update(ctx context.Context, e *models.Enrollment) error {
	query := squirrel.Update("enrollments").
		Set("group_id", e.GroupID).
		Set("active", e.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", e.ID).
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

// Delete soft-deletes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "enrollments", id)
}
