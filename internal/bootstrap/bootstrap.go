package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/avillada/escolar/internal/app/controllers"
	appMigrations "github.com/avillada/escolar/internal/app/migrations"
	appRepos "github.com/avillada/escolar/internal/app/repositories"
	appRoutes "github.com/avillada/escolar/internal/app/routes"
	appServices "github.com/avillada/escolar/internal/app/services"
	"github.com/avillada/escolar/internal/config"
	"github.com/avillada/escolar/internal/db"
	appMiddleware "github.com/avillada/escolar/internal/middleware"
	pkgAuth "github.com/avillada/escolar/internal/pkg/auth"
	"github.com/avillada/escolar/internal/pkg/email"
	"github.com/avillada/escolar/internal/pkg/filestorage"
	"github.com/avillada/escolar/internal/pkg/helpers"
	"github.com/avillada/escolar/internal/pkg/logger"
	"github.com/avillada/escolar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	AccessService        *appServices.AccessService
	UserService          *appServices.UserService
	RbacService          *appServices.RbacService
	PersonService        *appServices.PersonService
	CatalogService       *appServices.CatalogService
	GradeSubjectService  *appServices.GradeSubjectService
	YearService          *appServices.YearService
	GroupService         *appServices.GroupService
	AssignmentService    *appServices.AssignmentService
	EnrollmentService    *appServices.EnrollmentService
	ScoreService         *appServices.ScoreService
	AbsenceService       *appServices.AbsenceService
	ReportCardService    *appServices.ReportCardService
	AuthController       *appControllers.AuthController
	UserController       *appControllers.UserController
	PersonController     *appControllers.PersonController
	RbacController       *appControllers.RbacController
	CatalogController    *appControllers.CatalogController
	YearController       *appControllers.YearController
	GroupController      *appControllers.GroupController
	AssignmentController *appControllers.AssignmentController
	EnrollmentController *appControllers.EnrollmentController
	ScoreController      *appControllers.ScoreController
	ReportCardController *appControllers.ReportCardController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	PermissionMiddleware *appMiddleware.PermissionMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	EmailService         email.EmailService
	Logger               zerolog.Logger
	FileStorage          *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default catalog data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is best effort; a partially seeded database still serves
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// The base URL must match the static file serving endpoint
	var err error
	baseURL := "http://localhost:" + cfg.Server.Port
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	smtpPort, err := strconv.Atoi(cfg.Email.Port)
	if err != nil {
		smtpPort = 587
	}
	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      smtpPort,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.School.Name,
		FromEmail: cfg.Email.From,
		UseTLS:    true,
	}, lgr)

	// Services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.PersonRepository,
		deps.Repos.UserRoleRepository,
		deps.Repos.PermissionRepository,
		deps.Repos.PageRepository,
		deps.Repos.PasswordResetRepository,
		deps.JWTService,
		deps.EmailService,
	)
	deps.AccessService = appServices.NewAccessService(
		deps.Repos.PageRepository,
		deps.Repos.UserRoleRepository,
		deps.Repos.PermissionRepository,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.PersonRepository,
		deps.Repos.UserRoleRepository,
		deps.Repos.RoleRepository,
	)
	deps.RbacService = appServices.NewRbacService(
		deps.Repos.RoleRepository,
		deps.Repos.PageRepository,
		deps.Repos.PermissionRepository,
		deps.Repos.UserRoleRepository,
		deps.Repos.UserRepository,
	)
	deps.PersonService = appServices.NewPersonService(
		deps.Repos.PersonRepository,
		deps.Repos.IDTypeRepository,
		deps.FileStorage,
	)
	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.GradeRepository,
		deps.Repos.ShiftRepository,
		deps.Repos.SubjectRepository,
		deps.Repos.YearStateRepository,
	)
	deps.GradeSubjectService = appServices.NewGradeSubjectService(
		deps.Repos.GradeSubjectRepository,
		deps.Repos.GradeRepository,
		deps.Repos.SubjectRepository,
		deps.Repos.SchoolYearRepository,
	)
	deps.YearService = appServices.NewYearService(
		deps.Repos.SchoolYearRepository,
		deps.Repos.PeriodRepository,
	)
	deps.GroupService = appServices.NewGroupService(
		deps.Repos.GroupRepository,
		deps.Repos.GradeRepository,
		deps.Repos.ShiftRepository,
		deps.Repos.SchoolYearRepository,
	)
	deps.AssignmentService = appServices.NewAssignmentService(
		deps.Repos.AssignmentRepository,
		deps.Repos.GroupRepository,
		deps.Repos.SchoolYearRepository,
		deps.Repos.PersonRepository,
		deps.Repos.EnrollmentRepository,
		deps.Repos.SubjectRepository,
		deps.Repos.ScoreRepository,
		deps.Repos.AbsenceRepository,
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.EnrollmentRepository,
		deps.Repos.GroupRepository,
	)
	deps.ScoreService = appServices.NewScoreService(
		deps.Repos.ScoreRepository,
		deps.Repos.PeriodRepository,
	)
	deps.AbsenceService = appServices.NewAbsenceService(deps.Repos.AbsenceRepository)
	deps.ReportCardService = appServices.NewReportCardService(
		cfg.School.Name,
		deps.Repos.GroupRepository,
		deps.Repos.GradeRepository,
		deps.Repos.ShiftRepository,
		deps.Repos.SchoolYearRepository,
		deps.Repos.PeriodRepository,
		deps.Repos.EnrollmentRepository,
		deps.Repos.AssignmentRepository,
		deps.Repos.SubjectRepository,
		deps.Repos.GradeSubjectRepository,
		deps.Repos.ScoreRepository,
		deps.Repos.AbsenceRepository,
	)

	// Middleware
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.PermissionMiddleware = appMiddleware.NewPermissionMiddleware(deps.AccessService)

	// Controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.RbacService)
	deps.PersonController = appControllers.NewPersonController(deps.PersonService)
	deps.RbacController = appControllers.NewRbacController(deps.RbacService)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService, deps.GradeSubjectService)
	deps.YearController = appControllers.NewYearController(deps.YearService)
	deps.GroupController = appControllers.NewGroupController(deps.GroupService)
	deps.AssignmentController = appControllers.NewAssignmentController(deps.AssignmentService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.ScoreController = appControllers.NewScoreController(deps.ScoreService, deps.AbsenceService)
	deps.ReportCardController = appControllers.NewReportCardController(deps.ReportCardService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.PersonController,
		deps.RbacController,
		deps.CatalogController,
		deps.YearController,
		deps.GroupController,
		deps.AssignmentController,
		deps.EnrollmentController,
		deps.ScoreController,
		deps.ReportCardController,
		deps.AuthMiddleware,
		deps.PermissionMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
