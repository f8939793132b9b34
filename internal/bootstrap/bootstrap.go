package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/azeem8271/trek-tours/internal/app/controllers"
	appRepos "github.com/azeem8271/trek-tours/internal/app/repositories"
	appRoutes "github.com/azeem8271/trek-tours/internal/app/routes"
	appServices "github.com/azeem8271/trek-tours/internal/app/services"
	"github.com/azeem8271/trek-tours/internal/config"
	"github.com/azeem8271/trek-tours/internal/db"
	appMiddleware "github.com/azeem8271/trek-tours/internal/middleware"
	pkgAuth "github.com/azeem8271/trek-tours/internal/pkg/auth"
	"github.com/azeem8271/trek-tours/internal/pkg/email"
	"github.com/azeem8271/trek-tours/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos            *appRepos.Repositories
	Services         *appServices.Services
	AuthController   *appControllers.AuthController
	TourController   *appControllers.TourController
	UserController   *appControllers.UserController
	ReviewController *appControllers.ReviewController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	RateLimiter      *appMiddleware.RateLimiter
	JWTService       *pkgAuth.JWTService
	EmailService     email.EmailService
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// A .env file in the working directory feeds the environment overrides.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, relying on the environment")
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

// SetupDatabase establishes the MongoDB connection and ensures indexes.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.MongoDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewMongoDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Str("database", cfg.Database.Name).Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ensure indexes")
		if closeErr := database.Close(context.Background()); closeErr != nil {
			lgr.Error().Err(closeErr).Msg("Failed to close database connection")
		}
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	lgr.Info().Msg("Database indexes ensured.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.MongoDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		Expiry:      cfg.JWTExpiry(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.From,
	}, lgr)

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.EmailService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.Max, cfg.RateLimitWindow())

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, deps.JWTService, cfg, lgr)
	deps.TourController = appControllers.NewTourController(deps.Repos.TourRepository)
	deps.UserController = appControllers.NewUserController(deps.Services.UserService)
	deps.ReviewController = appControllers.NewReviewController(deps.Repos.ReviewRepository)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}
	appMiddleware.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(appMiddleware.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.BodyLimit())

	appRoutes.SetupRouter(router,
		deps.Repos,
		deps.AuthController,
		deps.TourController,
		deps.UserController,
		deps.ReviewController,
		deps.AuthMiddleware,
		deps.RateLimiter,
	)

	// Health endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
