package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/openlab/internal/app/controllers"
	appMigrations "github.com/yigit/openlab/internal/app/migrations"
	appRepos "github.com/yigit/openlab/internal/app/repositories"
	appRoutes "github.com/yigit/openlab/internal/app/routes"
	appServices "github.com/yigit/openlab/internal/app/services"
	"github.com/yigit/openlab/internal/config"
	"github.com/yigit/openlab/internal/db"
	"github.com/yigit/openlab/internal/jobs"
	appMiddleware "github.com/yigit/openlab/internal/middleware"
	"github.com/yigit/openlab/internal/pkg/logger"
	"github.com/yigit/openlab/internal/pkg/metrics"
	"github.com/yigit/openlab/internal/seed"
)

// DefaultConfigPath is where the YAML configuration is looked up
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	LabService        appServices.LabService
	StudentService    appServices.StudentService
	AssignmentService appServices.AssignmentService
	SettingsService   appServices.SettingsService
	ResultService     appServices.ResultService
	Controllers       appRoutes.Controllers
	Repos             *appRepos.Repositories
	Metrics           *metrics.Collector
	JobClient         *asynq.Client // nil when Redis is not configured
	Worker            *jobs.Worker  // nil when Redis is not configured
	Logger            zerolog.Logger
}

// Close releases the job queue client.
func (d *Dependencies) Close() {
	if d.JobClient != nil {
		if err := d.JobClient.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close job client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
		Output: os.Stdout,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// RunMigrations applies every pending migration file.
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SeedDefaults inserts the default labs into an empty database. Errors are
// logged and do not stop the startup.
func SeedDefaults(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) {
	if _, err := seed.CreateDefaultData(ctx, repos.Labs(), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)
	deps.Metrics = metrics.NewCollector()

	var scheduler appServices.CloseScheduler
	if cfg.JobsEnabled() {
		redisOpt := redisConnOpt(cfg)
		deps.JobClient = asynq.NewClient(redisOpt)
		scheduler = jobs.NewScheduler(deps.JobClient, logger.WithComponent("jobs"))
		lgr.Info().Str("redis", cfg.Redis.Addr).Msg("Background jobs enabled")
	} else {
		lgr.Info().Msg("Redis address not set, scheduled registration close relies on lazy checks")
	}

	deps.SettingsService = appServices.NewSettingsService(deps.Repos, scheduler, logger.WithComponent("settings"))
	deps.LabService = appServices.NewLabService(deps.Repos.Labs())
	deps.StudentService = appServices.NewStudentService(deps.Repos.Students(), deps.Repos.Labs(), deps.SettingsService)
	deps.AssignmentService = appServices.NewAssignmentService(
		deps.Repos,
		appServices.SeededSolvers(cfg.Solver.Seed),
		deps.Metrics,
		logger.WithComponent("assignments"),
	)
	deps.ResultService = appServices.NewResultService(deps.StudentService, deps.Repos.Assignments(), deps.SettingsService)

	if cfg.JobsEnabled() {
		deps.Worker = jobs.NewWorker(redisConnOpt(cfg), deps.SettingsService, logger.WithComponent("worker"))
	}

	deps.Controllers = appRoutes.Controllers{
		Lab:        appControllers.NewLabController(deps.LabService),
		Student:    appControllers.NewStudentController(deps.StudentService),
		Assignment: appControllers.NewAssignmentController(deps.AssignmentService),
		Settings:   appControllers.NewSettingsController(deps.SettingsService),
		Result:     appControllers.NewResultController(deps.ResultService),
		Health:     appControllers.NewHealthController(database.Pool),
	}

	return deps, nil
}

func redisConnOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
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
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.WithComponent("http")),
		appMiddleware.Metrics(deps.Metrics),
	)

	appRoutes.SetupRouter(router, deps.Controllers)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
