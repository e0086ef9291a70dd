package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// GroupRepository handles database operations for class groups
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

var groupColumns = []string{
	"id", "grade_id", "shift_id", "school_year_id", "director_user_id",
	"code", "capacity", "created_at", "updated_at",
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	err := row.Scan(&g.ID, &g.GradeID, &g.ShiftID, &g.SchoolYearID, &g.DirectorUserID,
		&g.Code, &g.Capacity, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &g, nil
}

// GetAll retrieves groups with optional grade/year filters and pagination
func (r *GroupRepository) GetAll(ctx context.Context, gradeID, schoolYearID *int64, page, pageSize int) ([]models.Group, int64, error) {
	query := notDeleted(squirrel.Select(groupColumns...).
		From("groups").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	if gradeID != nil {
		query = query.Where("grade_id = ?", *gradeID)
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

	var groups []models.Group
	var total int64

	for rows.Next() {
		var g models.Group
		err := rows.Scan(&g.ID, &g.GradeID, &g.ShiftID, &g.SchoolYearID, &g.DirectorUserID,
			&g.Code, &g.Capacity, &g.CreatedAt, &g.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, total, nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	query := notDeleted(squirrel.Select(groupColumns...).
		From("groups").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanGroup(r.db.QueryRow(ctx, sql, args...))
}

// GetByGradeAndYear retrieves the live groups of a grade in a school year,
// ordered by id so expansion walks them deterministically.
func (r *GroupRepository) GetByGradeAndYear(ctx context.Context, gradeID, schoolYearID int64) ([]models.Group, error) {
	query := notDeleted(squirrel.Select(groupColumns...).
		From("groups").
		Where("grade_id = ?", gradeID).
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

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		err := rows.Scan(&g.ID, &g.GradeID, &g.ShiftID, &g.SchoolYearID, &g.DirectorUserID,
			&g.Code, &g.Capacity, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, nil
}

// Create creates a new group
func (r *GroupRepository) Create(ctx context.Context, g *models.Group) (int64, error) {
	query := squirrel.Insert("groups").
		Columns("grade_id", "shift_id", "school_year_id", "director_user_id", "code", "capacity").
		Values(g.GradeID, g.ShiftID, g.SchoolYearID, g.DirectorUserID, g.Code, g.Capacity).
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

// Update updates a group
func (r *GroupRepository) Update(ctx context.Context, g *models.Group) error {
	query := squirrel.Update("groups").
		Set("grade_id", g.GradeID).
		Set("shift_id", g.ShiftID).
		Set("director_user_id", g.DirectorUserID).
		Set("code", g.Code).
		Set("capacity", g.Capacity).
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

// Delete soft-deletes a group
func (r *GroupRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "groups", id)
}
