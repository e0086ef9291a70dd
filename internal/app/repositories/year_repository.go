package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// SchoolYearRepository handles database operations for school years
type SchoolYearRepository struct {
	db *pgxpool.Pool
}

// NewSchoolYearRepository creates a new SchoolYearRepository
func NewSchoolYearRepository(db *pgxpool.Pool) *SchoolYearRepository {
	return &SchoolYearRepository{db: db}
}

// GetAll retrieves all school years, most recent first
func (r *SchoolYearRepository) GetAll(ctx context.Context) ([]models.SchoolYear, error) {
	query := notDeleted(squirrel.Select("id", "year", "start_date", "end_date", "state_id", "created_at", "updated_at").
		From("school_years").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("year DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var years []models.SchoolYear
	for rows.Next() {
		var y models.SchoolYear
		err := rows.Scan(&y.ID, &y.Year, &y.StartDate, &y.EndDate, &y.StateID, &y.CreatedAt, &y.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		years = append(years, y)
	}

	return years, nil
}

// GetByID retrieves a school year by ID
func (r *SchoolYearRepository) GetByID(ctx context.Context, id int64) (*models.SchoolYear, error) {
	query := notDeleted(squirrel.Select("id", "year", "start_date", "end_date", "state_id", "created_at", "updated_at").
		From("school_years").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var y models.SchoolYear
	err = r.db.QueryRow(ctx, sql, args...).Scan(&y.ID, &y.Year, &y.StartDate, &y.EndDate, &y.StateID, &y.CreatedAt, &y.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &y, nil
}

// GetActive retrieves the school year whose state is Activo, if any
func (r *SchoolYearRepository) GetActive(ctx context.Context) (*models.SchoolYear, error) {
	query := squirrel.Select("sy.id", "sy.year", "sy.start_date", "sy.end_date", "sy.state_id", "sy.created_at", "sy.updated_at").
		From("school_years sy").
		Join("year_states ys ON ys.id = sy.state_id").
		Where("ys.name = ?", "Activo").
		Where("sy.deleted_at IS NULL").
		OrderBy("sy.year DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var y models.SchoolYear
	err = r.db.QueryRow(ctx, sql, args...).Scan(&y.ID, &y.Year, &y.StartDate, &y.EndDate, &y.StateID, &y.CreatedAt, &y.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &y, nil
}

// Create creates a new school year
func (r *SchoolYearRepository) Create(ctx context.Context, y *models.SchoolYear) (int64, error) {
	query := squirrel.Insert("school_years").
		Columns("year", "start_date", "end_date", "state_id").
		Values(y.Year, y.StartDate, y.EndDate, y.StateID).
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

// Update updates a school year
func (r *SchoolYearRepository) Update(ctx context.Context, y *models.SchoolYear) error {
	query := squirrel.Update("school_years").
		Set("year", y.Year).
		Set("start_date", y.StartDate).
		Set("end_date", y.EndDate).
		Set("state_id", y.StateID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", y.ID).
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

// Delete soft-deletes a school year
func (r *SchoolYearRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "school_years", id)
}

// PeriodRepository handles database operations for academic periods
type PeriodRepository struct {
	db *pgxpool.Pool
}

// NewPeriodRepository creates a new PeriodRepository
func NewPeriodRepository(db *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// GetAll retrieves periods, optionally limited to a school year
func (r *PeriodRepository) GetAll(ctx context.Context, schoolYearID *int64) ([]models.Period, error) {
	query := notDeleted(squirrel.Select("id", "school_year_id", "name", "start_date", "end_date", "status", "created_at", "updated_at").
		From("periods").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("start_date ASC")

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

	var periods []models.Period
	for rows.Next() {
		var p models.Period
		err := rows.Scan(&p.ID, &p.SchoolYearID, &p.Name, &p.StartDate, &p.EndDate, &p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		periods = append(periods, p)
	}

	return periods, nil
}

// GetByID retrieves a period by ID
func (r *PeriodRepository) GetByID(ctx context.Context, id int64) (*models.Period, error) {
	query := notDeleted(squirrel.Select("id", "school_year_id", "name", "start_date", "end_date", "status", "created_at", "updated_at").
		From("periods").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var p models.Period
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.SchoolYearID, &p.Name, &p.StartDate, &p.EndDate, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &p, nil
}

// Create creates a new period
func (r *PeriodRepository) Create(ctx context.Context, p *models.Period) (int64, error) {
	query := squirrel.Insert("periods").
		Columns("school_year_id", "name", "start_date", "end_date", "status").
		Values(p.SchoolYearID, p.Name, p.StartDate, p.EndDate, p.Status).
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

// Update updates a period
func (r *PeriodRepository) Update(ctx context.Context, p *models.Period) error {
	query := squirrel.Update("periods").
		Set("name", p.Name).
		Set("start_date", p.StartDate).
		Set("end_date", p.EndDate).
		Set("status", p.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", p.ID).
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

// Delete soft-deletes a period
func (r *PeriodRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "periods", id)
}
