package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/coursehub/internal/app/auth"
	appControllers "github.com/yigit/coursehub/internal/app/controllers"
	appMigrations "github.com/yigit/coursehub/internal/app/migrations"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
	appRoutes "github.com/yigit/coursehub/internal/app/routes"
	appServices "github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/background"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/db"
	appMiddleware "github.com/yigit/coursehub/internal/middleware"
	pkgAuth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/email"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService
	FileStorage  *filestorage.LocalStorage
	Redis        *redis.Client // nil when no redis address is configured
	Dispatcher   *background.DeliveryDispatcher

	AuthMiddleware *appMiddleware.AuthMiddleware
	RateLimiter    *appMiddleware.RateLimiter
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.Admin{Username: cfg.Admin.Username, Email: cfg.Admin.Email, Password: cfg.Admin.Password}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		// the API is still usable without the bootstrap account
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects to redis when an address is configured. An unreachable
// server is logged and kept; the rate limiter lets requests through until it recovers.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis ping failed, rate limiting degraded")
	} else {
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Redis = SetupRedis(cfg, lgr)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository)

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, logger.With("smtp"))

	deps.Dispatcher = background.NewDeliveryDispatcher(deps.Repos.NotificationRepository, sender, background.DispatcherConfig{
		PollInterval: helpers.ParseDuration(cfg.Notifications.PollInterval, 5*time.Second),
		Workers:      cfg.Notifications.Workers,
		BatchSize:    cfg.Notifications.BatchSize,
		MaxAttempts:  cfg.Notifications.MaxAttempts,
		RetryBackoff: helpers.ParseDuration(cfg.Notifications.RetryBackoff, 30*time.Second),
	}, logger.With("dispatcher"))

	// Initialize services
	repos := deps.Repos
	authService := appServices.NewAuthService(repos.UserRepository, deps.JWTService, lgr)
	profileService := appServices.NewProfileService(repos.ProfileRepository, deps.FileStorage)
	courseService := appServices.NewCourseService(repos.CourseRepository, repos.LessonVideoRepository, deps.FileStorage)
	sectionService := appServices.NewSectionService(repos.SectionRepository, repos.LessonVideoRepository, deps.FileStorage)
	lessonService := appServices.NewLessonService(repos.LessonRepository, repos.LessonVideoRepository, deps.FileStorage)
	videoService := appServices.NewLessonVideoService(repos.LessonVideoRepository, deps.FileStorage)
	commentService := appServices.NewCommentService(repos.CommentRepository, deps.AuthzService)
	replyService := appServices.NewReplyService(repos.ReplyRepository, deps.AuthzService)
	notificationService := appServices.NewNotificationService(repos.NotificationRepository, deps.Dispatcher)
	startedService := appServices.NewStartedCourseService(repos.StartedCourseRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)
	deps.RateLimiter = appMiddleware.NewRateLimiter(deps.Redis)

	deps.Controllers = appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(authService, lgr),
		Profile:       appControllers.NewProfileController(profileService),
		Course:        appControllers.NewCourseController(courseService),
		Section:       appControllers.NewSectionController(sectionService),
		Lesson:        appControllers.NewLessonController(lessonService),
		LessonVideo:   appControllers.NewLessonVideoController(videoService),
		Comment:       appControllers.NewCommentController(commentService),
		Reply:         appControllers.NewReplyController(replyService),
		Notification:  appControllers.NewNotificationController(notificationService),
		StartedCourse: appControllers.NewStartedCourseController(startedService),
		Health:        appControllers.NewHealthController(dbPool),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.With("http")),
		appMiddleware.CORS(cfg.AllowedOrigins()),
	)

	appRoutes.SetupSwagger(router, strings.TrimPrefix(strings.TrimPrefix(cfg.PublicBaseURL(), "http://"), "https://"))

	appRoutes.SetupRouter(router,
		deps.Controllers,
		deps.AuthMiddleware,
		deps.RateLimiter,
		appRoutes.RateLimits{
			LoginPerMinute: cfg.RateLimit.LoginPerMinute,
			MailPerHour:    cfg.RateLimit.MailPerHour,
		},
	)

	return router, nil
}
