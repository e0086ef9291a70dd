package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Roles created on first start. "Desarrollador" also sees hidden pages.
var defaultRoles = []struct {
	Name    string
	Visible bool
}{
	{"Administrador", true},
	{"Desarrollador", false},
	{"Docente", true},
}

// Pages registered in the permission matrix. Route is the key the
// authorization resolver looks pages up by.
var defaultPages = []struct {
	Name    string
	Route   string
	Visible bool
}{
	{"Usuarios", "/usuarios", true},
	{"Roles", "/roles", true},
	{"Páginas", "/paginas", false},
	{"Permisos", "/permisos", true},
	{"Usuario Rol", "/usuario-rol", true},
	{"Personas", "/personas", true},
	{"Tipos de Identificación", "/tipos-identificacion", true},
	{"Grados", "/grados", true},
	{"Jornadas", "/jornadas", true},
	{"Asignaturas", "/asignaturas", true},
	{"Año Lectivo", "/aniolectivo", true},
	{"Estados del Año", "/estados-anio", false},
	{"Periodos", "/periodos", true},
	{"Grupos", "/grupos", true},
	{"Matrículas", "/matriculas", true},
	{"Calificaciones", "/calificaciones", true},
	{"Fallas", "/fallas", true},
	{"Docente Asignatura", "/docente-asignatura", true},
	{"Boletín", "/boletin", true},
}

var defaultYearStates = []string{"Activo", "Cerrado", "Pendiente"}

var defaultIDTypes = []string{
	"Cédula de Ciudadanía",
	"Tarjeta de Identidad",
	"Registro Civil",
	"Cédula de Extranjería",
}

// CreateDefaultData seeds roles, pages, full permissions for the
// administrative roles, catalog rows and the initial admin account.
// Every insert is idempotent so the seed can run on each startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (roles, pages, permissions)...")
	var finalErr error

	for _, r := range defaultRoles {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO roles (name, visible) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			r.Name, r.Visible)
		if err != nil {
			lgr.Error().Err(err).Str("role", r.Name).Msg("Error creating default role")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, p := range defaultPages {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO pages (name, route, visible) VALUES ($1, $2, $3) ON CONFLICT (route) DO NOTHING`,
			p.Name, p.Route, p.Visible)
		if err != nil {
			lgr.Error().Err(err).Str("route", p.Route).Msg("Error creating default page")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Administrador and Desarrollador get every capability on every page
	for _, roleName := range []string{"Administrador", "Desarrollador"} {
		_, err := dbPool.Exec(ctx, `
			INSERT INTO permissions (role_id, page_id, can_view, can_create, can_edit, can_delete)
			SELECT r.id, p.id, true, true, true, true
			FROM roles r CROSS JOIN pages p
			WHERE r.name = $1 AND r.deleted_at IS NULL AND p.deleted_at IS NULL
			ON CONFLICT (role_id, page_id) DO NOTHING`, roleName)
		if err != nil {
			lgr.Error().Err(err).Str("role", roleName).Msg("Error granting default permissions")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Docente may record scores and absences, and read groups and report cards
	_, err := dbPool.Exec(ctx, `
		INSERT INTO permissions (role_id, page_id, can_view, can_create, can_edit, can_delete)
		SELECT r.id, p.id, true, p.route IN ('/calificaciones', '/fallas'), p.route IN ('/calificaciones', '/fallas'), false
		FROM roles r CROSS JOIN pages p
		WHERE r.name = 'Docente'
		  AND p.route IN ('/calificaciones', '/fallas', '/grupos', '/boletin', '/docente-asignatura')
		  AND r.deleted_at IS NULL AND p.deleted_at IS NULL
		ON CONFLICT (role_id, page_id) DO NOTHING`)
	if err != nil {
		lgr.Error().Err(err).Msg("Error granting teacher permissions")
		finalErr = errors.Join(finalErr, err)
	}

	for _, name := range defaultYearStates {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO year_states (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			lgr.Error().Err(err).Str("state", name).Msg("Error creating year state")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, name := range defaultIDTypes {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO id_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			lgr.Error().Err(err).Str("idType", name).Msg("Error creating identification type")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := createAdminUser(ctx, dbPool, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createAdminUser(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	var exists bool
	err := dbPool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = 'admin' AND deleted_at IS NULL)`).Scan(&exists)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	lgr.Info().Msg("Creating default admin user...")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), 12)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	var adminID int64
	err = dbPool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, is_teacher) VALUES ('admin', $1, false) RETURNING id`,
		string(hashedPassword)).Scan(&adminID)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	_, err = dbPool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = 'Administrador' AND deleted_at IS NULL
		ON CONFLICT (user_id, role_id) DO NOTHING`, adminID)
	if err != nil {
		lgr.Error().Err(err).Msg("Error assigning admin role")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return nil
}
