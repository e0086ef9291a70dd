package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avillada/escolar/internal/app/models"
)

// RoleRepository handles database operations for roles
type RoleRepository struct {
	db *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetAll retrieves all roles with pagination
func (r *RoleRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Role, int64, error) {
	query := notDeleted(squirrel.Select("id", "name", "visible", "created_at", "updated_at").
		From("roles").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

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

	var roles []models.Role
	var total int64

	for rows.Next() {
		var role models.Role
		err := rows.Scan(&role.ID, &role.Name, &role.Visible, &role.CreatedAt, &role.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		roles = append(roles, role)
	}

	return roles, total, nil
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	query := notDeleted(squirrel.Select("id", "name", "visible", "created_at", "updated_at").
		From("roles").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var role models.Role
	err = r.db.QueryRow(ctx, sql, args...).Scan(&role.ID, &role.Name, &role.Visible, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &role, nil
}

// Create creates a new role
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) (int64, error) {
	query := squirrel.Insert("roles").
		Columns("name", "visible").
		Values(role.Name, role.Visible).
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

// Update updates an existing role
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	query := squirrel.Update("roles").
		Set("name", role.Name).
		Set("visible", role.Visible).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", role.ID).
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

// Delete soft-deletes a role
func (r *RoleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "roles", id)
}

// PageRepository handles database operations for pages
type PageRepository struct {
	db *pgxpool.Pool
}

// NewPageRepository creates a new PageRepository
func NewPageRepository(db *pgxpool.Pool) *PageRepository {
	return &PageRepository{db: db}
}

// GetAll retrieves all pages with pagination
func (r *PageRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Page, int64, error) {
	query := notDeleted(squirrel.Select("id", "name", "route", "visible", "created_at", "updated_at").
		From("pages").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

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

	var pages []models.Page
	var total int64

	for rows.Next() {
		var p models.Page
		err := rows.Scan(&p.ID, &p.Name, &p.Route, &p.Visible, &p.CreatedAt, &p.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		pages = append(pages, p)
	}

	return pages, total, nil
}

// GetVisible retrieves every live page, optionally only the visible ones
func (r *PageRepository) GetVisible(ctx context.Context, onlyVisible bool) ([]models.Page, error) {
	query := notDeleted(squirrel.Select("id", "name", "route", "visible", "created_at", "updated_at").
		From("pages").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	if onlyVisible {
		query = query.Where("visible = TRUE")
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

	var pages []models.Page
	for rows.Next() {
		var p models.Page
		err := rows.Scan(&p.ID, &p.Name, &p.Route, &p.Visible, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		pages = append(pages, p)
	}

	return pages, nil
}

// GetByID retrieves a page by ID
func (r *PageRepository) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	query := notDeleted(squirrel.Select("id", "name", "route", "visible", "created_at", "updated_at").
		From("pages").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var p models.Page
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Name, &p.Route, &p.Visible, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &p, nil
}

// GetByRoute retrieves a page by its exact route
func (r *PageRepository) GetByRoute(ctx context.Context, route string) (*models.Page, error) {
	query := notDeleted(squirrel.Select("id", "name", "route", "visible", "created_at", "updated_at").
		From("pages").
		Where("route = ?", route).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var p models.Page
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Name, &p.Route, &p.Visible, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &p, nil
}

// Create creates a new page
func (r *PageRepository) Create(ctx context.Context, page *models.Page) (int64, error) {
	query := squirrel.Insert("pages").
		Columns("name", "route", "visible").
		Values(page.Name, page.Route, page.Visible).
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

// Update updates an existing page
func (r *PageRepository) Update(ctx context.Context, page *models.Page) error {
	query := squirrel.Update("pages").
		Set("name", page.Name).
		Set("route", page.Route).
		Set("visible", page.Visible).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", page.ID).
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

// Delete soft-deletes a page
func (r *PageRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "pages", id)
}

// PermissionRepository handles database operations for permissions
type PermissionRepository struct {
	db *pgxpool.Pool
}

// NewPermissionRepository creates a new PermissionRepository
func NewPermissionRepository(db *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// GetAll retrieves permissions with optional role/page filters
func (r *PermissionRepository) GetAll(ctx context.Context, roleID, pageID *int64, page, pageSize int) ([]models.Permission, int64, error) {
	query := notDeleted(squirrel.Select("id", "role_id", "page_id", "can_view", "can_create", "can_edit", "can_delete", "created_at", "updated_at").
		From("permissions").
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC")

	if roleID != nil {
		query = query.Where("role_id = ?", *roleID)
	}
	if pageID != nil {
		query = query.Where("page_id = ?", *pageID)
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

	var perms []models.Permission
	var total int64

	for rows.Next() {
		var p models.Permission
		err := rows.Scan(&p.ID, &p.RoleID, &p.PageID, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete, &p.CreatedAt, &p.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		perms = append(perms, p)
	}

	return perms, total, nil
}

// GetByID retrieves a permission by ID
func (r *PermissionRepository) GetByID(ctx context.Context, id int64) (*models.Permission, error) {
	query := notDeleted(squirrel.Select("id", "role_id", "page_id", "can_view", "can_create", "can_edit", "can_delete", "created_at", "updated_at").
		From("permissions").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var p models.Permission
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.RoleID, &p.PageID, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &p, nil
}

// FirstForRolesAndPage returns the lowest-id permission row matching any of
// the roles on the page. The fixed ordering keeps authorization
// deterministic when a user holds several roles on the same page.
func (r *PermissionRepository) FirstForRolesAndPage(ctx context.Context, roleIDs []int64, pageID int64) (*models.Permission, error) {
	query := notDeleted(squirrel.Select("id", "role_id", "page_id", "can_view", "can_create", "can_edit", "can_delete", "created_at", "updated_at").
		From("permissions").
		Where("role_id = ANY(?)", roleIDs).
		Where("page_id = ?", pageID).
		PlaceholderFormat(squirrel.Dollar)).
		OrderBy("id ASC").
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var p models.Permission
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.RoleID, &p.PageID, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &p, nil
}

// GetForRoles returns every live permission of the given roles keyed later
// by page when building a profile's access matrix.
func (r *PermissionRepository) GetForRoles(ctx context.Context, roleIDs []int64) ([]models.Permission, error) {
	query := notDeleted(squirrel.Select("id", "role_id", "page_id", "can_view", "can_create", "can_edit", "can_delete", "created_at", "updated_at").
		From("permissions").
		Where("role_id = ANY(?)", roleIDs).
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

	var perms []models.Permission
	for rows.Next() {
		var p models.Permission
		err := rows.Scan(&p.ID, &p.RoleID, &p.PageID, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		perms = append(perms, p)
	}

	return perms, nil
}

// Create creates a new permission
func (r *PermissionRepository) Create(ctx context.Context, perm *models.Permission) (int64, error) {
	query := squirrel.Insert("permissions").
		Columns("role_id", "page_id", "can_view", "can_create", "can_edit", "can_delete").
		Values(perm.RoleID, perm.PageID, perm.CanView, perm.CanCreate, perm.CanEdit, perm.CanDelete).
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

// Update updates the capability flags of a permission
func (r *PermissionRepository) Update(ctx context.Context, perm *models.Permission) error {
	query := squirrel.Update("permissions").
		Set("can_view", perm.CanView).
		Set("can_create", perm.CanCreate).
		Set("can_edit", perm.CanEdit).
		Set("can_delete", perm.CanDelete).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND deleted_at IS NULL", perm.ID).
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

// Delete soft-deletes a permission
func (r *PermissionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "permissions", id)
}

// UserRoleRepository handles database operations for user role links
type UserRoleRepository struct {
	db *pgxpool.Pool
}

// NewUserRoleRepository creates a new UserRoleRepository
func NewUserRoleRepository(db *pgxpool.Pool) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

// GetActiveRoleIDs returns the ids of the user's live roles
func (r *UserRoleRepository) GetActiveRoleIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := squirrel.Select("ur.role_id").
		From("user_roles ur").
		Join("roles r ON r.id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Where("ur.deleted_at IS NULL").
		Where("r.deleted_at IS NULL").
		OrderBy("ur.role_id ASC").
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

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// GetRolesForUser returns the user's live roles
func (r *UserRoleRepository) GetRolesForUser(ctx context.Context, userID int64) ([]models.Role, error) {
	query := squirrel.Select("r.id", "r.name", "r.visible", "r.created_at", "r.updated_at").
		From("user_roles ur").
		Join("roles r ON r.id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Where("ur.deleted_at IS NULL").
		Where("r.deleted_at IS NULL").
		OrderBy("r.id ASC").
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

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		err := rows.Scan(&role.ID, &role.Name, &role.Visible, &role.CreatedAt, &role.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		roles = append(roles, role)
	}

	return roles, nil
}

// Assign links a role to a user
func (r *UserRoleRepository) Assign(ctx context.Context, userID, roleID int64) (int64, error) {
	query := squirrel.Insert("user_roles").
		Columns("user_id", "role_id").
		Values(userID, roleID).
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

// Remove soft-deletes a user role link
func (r *UserRoleRepository) Remove(ctx context.Context, id int64) (bool, error) {
	return softDelete(ctx, r.db, "user_roles", id)
}
