package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// PersonRepository handles database operations for people
type PersonRepository struct {
	db *pgxpool.Pool
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{db: db}
}

var personColumns = []string{
	"id", "first_name", "last_name", "id_type_id", "id_number", "birth_date",
	"gender", "phone", "email", "photo_url", "signature_url", "created_at", "updated_at",
}

func scanPerson(row pgx.Row) (*models.Person, error) {
	var p models.Person
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.IDTypeID, &p.IDNumber, &p.BirthDate,
		&p.Gender, &p.Phone, &p.Email, &p.PhotoURL, &p.SignatureURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &p, nil
}

// GetAll retrieves people with an optional name/document search and pagination
func (r *PersonRepository) GetAll(ctx context.Context, search *string, page, pageSize int) ([]models.Person, int64, error) {
	query := notDeleted(squirrel.Select(personColumns...).
		From("people").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("last_name ASC", "first_name ASC")

	if search != nil && *search != "" {
		like := "%" + *search + "%"
		query = query.Where("(first_name ILIKE ? OR last_name ILIKE ? OR id_number ILIKE ?)", like, like, like)
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

	var people []models.Person
	var total int64

	for rows.Next() {
		var p models.Person
		err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.IDTypeID, &p.IDNumber, &p.BirthDate,
			&p.Gender, &p.Phone, &p.Email, &p.PhotoURL, &p.SignatureURL, &p.CreatedAt, &p.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		people = append(people, p)
	}

	return people, total, nil
}

// GetByID retrieves a person by ID
func (r *PersonRepository) GetByID(ctx context.Context, id int64) (*models.Person, error) {
	query := notDeleted(squirrel.Select(personColumns...).
		From("people").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanPerson(r.db.QueryRow(ctx, sql, args...))
}

// GetByIDNumber retrieves a person by identity document number
func (r *PersonRepository) GetByIDNumber(ctx context.Context, idNumber string) (*models.Person, error) {
	query := notDeleted(squirrel.Select(personColumns...).
		From("people").
		Where("id_number = ?", idNumber).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanPerson(r.db.QueryRow(ctx, sql, args...))
}

// Create creates a new person
func (r *PersonRepository) Create(ctx context.Context, p *models.Person) (int64, error) {
	query := squirrel.Insert("people").
		Columns("first_name", "last_name", "id_type_id", "id_number", "birth_date", "gender", "phone", "email", "photo_url", "signature_url").
		Values(p.FirstName, p.LastName, p.IDTypeID, p.IDNumber, p.BirthDate, p.Gender, p.Phone, p.Email, p.PhotoURL, p.SignatureURL).
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

// Update updates an existing person
func (r *PersonRepository) Update(ctx context.Context, p *models.Person) error {
	query := squirrel.Update("people").
		Set("first_name", p.FirstName).
		Set("last_name", p.LastName).
		Set("id_type_id", p.IDTypeID).
		Set("id_number", p.IDNumber).
		Set("birth_date", p.BirthDate).
		Set("gender", p.Gender).
		Set("phone", p.Phone).
		Set("email", p.Email).
		Set("photo_url", p.PhotoURL).
		Set("signature_url", p.SignatureURL).
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

// Delete soft-deletes a person
func (r *PersonRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "people", id)
}

// GetTeachers lists people linked to a live teacher user
func (r *PersonRepository) GetTeachers(ctx context.Context) ([]models.Person, error) {
	query := squirrel.Select(
		"p.id", "p.first_name", "p.last_name", "p.id_type_id", "p.id_number", "p.birth_date",
		"p.gender", "p.phone", "p.email", "p.photo_url", "p.signature_url", "p.created_at", "p.updated_at").
		From("people p").
		Join("users u ON u.person_id = p.id").
		Where("u.is_teacher = TRUE").
		Where("p.deleted_at IS NULL").
		Where("u.deleted_at IS NULL").
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

	var people []models.Person
	for rows.Next() {
		var p models.Person
		err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.IDTypeID, &p.IDNumber, &p.BirthDate,
			&p.Gender, &p.Phone, &p.Email, &p.PhotoURL, &p.SignatureURL, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		people = append(people, p)
	}

	return people, nil
}

// IDTypeRepository handles the identity document type catalog
type IDTypeRepository struct {
	db *pgxpool.Pool
}

// NewIDTypeRepository creates a new IDTypeRepository
func NewIDTypeRepository(db *pgxpool.Pool) *IDTypeRepository {
	return &IDTypeRepository{db: db}
}

// GetAll retrieves all identity document types
func (r *IDTypeRepository) GetAll(ctx context.Context) ([]models.IDType, error) {
	query := notDeleted(squirrel.Select("id", "name", "created_at", "updated_at").
		From("id_types").
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

	var types []models.IDType
	for rows.Next() {
		var t models.IDType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		types = append(types, t)
	}

	return types, nil
}

// GetByID retrieves an identity document type by ID
func (r *IDTypeRepository) GetByID(ctx context.Context, id int64) (*models.IDType, error) {
	query := notDeleted(squirrel.Select("id", "name", "created_at", "updated_at").
		From("id_types").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var t models.IDType
	err = r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &t, nil
}

// Create creates a new identity document type
func (r *IDTypeRepository) Create(ctx context.Context, t *models.IDType) (int64, error) {
	query := squirrel.Insert("id_types").
		Columns("name").
		Values(t.Name).
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

// Delete soft-deletes an identity document type
func (r *IDTypeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "id_types", id)
}
