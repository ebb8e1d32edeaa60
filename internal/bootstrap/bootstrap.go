package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/emre/campusreg/internal/app/controllers"
	appMigrations "github.com/emre/campusreg/internal/app/migrations"
	appRepos "github.com/emre/campusreg/internal/app/repositories"
	appRoutes "github.com/emre/campusreg/internal/app/routes"
	appServices "github.com/emre/campusreg/internal/app/services"
	"github.com/emre/campusreg/internal/config"
	"github.com/emre/campusreg/internal/db"
	appMiddleware "github.com/emre/campusreg/internal/middleware"
	"github.com/emre/campusreg/internal/pkg/logger"
	"github.com/emre/campusreg/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CatalogService       *appServices.CatalogService
	RosterService        *appServices.RosterService
	EnrollmentService    *appServices.EnrollmentService
	CourseController     *appControllers.CourseController
	StudentController    *appControllers.StudentController
	EnrollmentController *appControllers.EnrollmentController
	Repos                *appRepos.Repositories
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// .env is optional; environment overrides still apply without it
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, relying on environment")
	}

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

// SetupDatabase establishes the database connection and runs migrations.
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

	if cfg.Seed.DemoData {
		if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, and controllers,
// and warms the in-memory working sets from storage.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.CatalogService = appServices.NewCatalogService(deps.Repos.CourseRepository, lgr)
	deps.RosterService = appServices.NewRosterService(deps.Repos.StudentRepository, deps.Repos.EnrollmentRepository, lgr)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.CatalogService,
		deps.RosterService,
		deps.Repos.EnrollmentRepository,
		lgr,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := deps.CatalogService.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load course catalog: %w", err)
	}
	if err := deps.RosterService.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load student roster: %w", err)
	}
	lgr.Info().Msg("In-memory working sets loaded from storage.")

	deps.CourseController = appControllers.NewCourseController(deps.CatalogService)
	deps.StudentController = appControllers.NewStudentController(deps.RosterService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService, deps.CatalogService)

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

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.StudentController,
		deps.EnrollmentController,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
