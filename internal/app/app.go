package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/templui/fitgoals/internal/auth"
	"github.com/templui/fitgoals/internal/config"
	"github.com/templui/fitgoals/internal/db"
	"github.com/templui/fitgoals/internal/middleware"
	"github.com/templui/fitgoals/internal/repository"
	"github.com/templui/fitgoals/internal/repository/mongodb"
	"github.com/templui/fitgoals/internal/service"
	"github.com/templui/fitgoals/internal/storage"
)

type App struct {
	Cfg *config.Config

	// Exactly one of DB and Mongo is set, depending on DB_DRIVER
	DB    *sqlx.DB
	Mongo *mongo.Database

	// Metrics is the registry served on /metrics; HTTPMetrics is nil when
	// METRICS_ENABLED=false
	Metrics     *prometheus.Registry
	HTTPMetrics *middleware.Metrics

	Providers    *auth.Registry
	AuthService  *service.AuthService
	UserService  *service.UserService
	GoalService  *service.GoalService
	EmailService *service.EmailService
	FileService  *service.FileService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	// Repositories
	var (
		userRepository repository.UserRepository
		goalRepository repository.GoalRepository
	)

	if cfg.UsesMongo() {
		mdb, err := db.ConnectMongo(ctx, cfg.DBConnection, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.Mongo = mdb

		userRepository = mongodb.NewUserRepository(mdb)
		goalRepository = mongodb.NewGoalRepository(mdb)
	} else {
		database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = database

		// Run database migrations
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		userRepository = repository.NewUserRepository(database)
		goalRepository = repository.NewGoalRepository(database)
	}

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Auth providers
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)
	a.Providers = newProviderRegistry(cfg, userRepository, tokens)

	provider, err := a.Providers.Provider(cfg.AuthProvider)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("invalid AUTH_PROVIDER: %w", err)
	}

	// Services
	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	a.FileService = service.NewFileService(fileStorage)
	a.AuthService = service.NewAuthService(userRepository, provider, a.Providers, a.EmailService)
	a.UserService = service.NewUserService(userRepository, goalRepository, a.FileService, a.EmailService)
	a.GoalService = service.NewGoalService(goalRepository, userRepository, a.EmailService)

	// Metrics
	a.Metrics = prometheus.NewRegistry()
	if cfg.MetricsEnabled {
		a.Metrics.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.HTTPMetrics, err = middleware.NewMetrics(a.Metrics)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	slog.Info("app initialized",
		"driver", cfg.DBDriver,
		"auth_provider", provider.Name(),
		"providers", a.Providers.Names(),
		"storage", a.FileService.Enabled(),
		"metrics", cfg.MetricsEnabled,
	)

	return a, nil
}

// newProviderRegistry registers the password provider plus every OAuth
// provider that has a client id configured.
func newProviderRegistry(cfg *config.Config, users repository.UserRepository, tokens *auth.JWTIssuer) *auth.Registry {
	registry := auth.NewRegistry(auth.NewPasswordProvider(users, tokens))

	if cfg.GoogleClientID != "" {
		registry.Register(auth.NewOAuthProvider(auth.GoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppURL), users, tokens))
	}
	if cfg.GitHubClientID != "" {
		registry.Register(auth.NewOAuthProvider(auth.GitHubConfig(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.AppURL), users, tokens))
	}
	if cfg.FacebookClientID != "" {
		registry.Register(auth.NewOAuthProvider(auth.FacebookConfig(cfg.FacebookClientID, cfg.FacebookClientSecret, cfg.AppURL), users, tokens))
	}

	return registry
}

// Ping checks whichever database backs the app.
func (a *App) Ping(ctx context.Context) error {
	if a.Mongo != nil {
		return a.Mongo.Client().Ping(ctx, nil)
	}
	if a.DB != nil {
		return a.DB.PingContext(ctx)
	}
	return errors.New("no database configured")
}

func (a *App) Close() error {
	if a.Mongo != nil {
		return db.CloseMongo(context.Background(), a.Mongo)
	}
	return db.Close(a.DB)
}
