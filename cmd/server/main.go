package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
	"github.com/AnshRaj112/mealmate-backend/internal/database"
	"github.com/AnshRaj112/mealmate-backend/internal/handlers"
	"github.com/AnshRaj112/mealmate-backend/internal/middleware"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
	"github.com/AnshRaj112/mealmate-backend/internal/routes"
	"github.com/AnshRaj112/mealmate-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	app := fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newMongo,
			newMongoDatabase,
			newRedis,
			newPostgres,
			newStore,
			services.NewTokenService,
			services.NewMailer,
			newActivityRecorder,
			newUserRepository,
			services.NewAuthService,
			services.NewUserService,
			services.NewCacheService,
			newMealService,
			services.NewGoogleProvider,
			services.NewImageUploader,
			newOrderHub,
			newAuthLimiter,
			newHandler,
			newRouterOptions,
			newRouter,
		),
		fx.Invoke(checkConfig, startHTTPServer),
	)

	app.Run()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newMongo(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*database.Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("connecting to MongoDB")
	m, err := database.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := database.EnsureIndexes(ctx, m.DB); err != nil {
		// A duplicate email already in the collection blocks the unique index;
		// the service still runs on the application-level check.
		logger.Warn("failed to ensure MongoDB indexes", zap.Error(err))
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return m.Close(ctx)
		},
	})
	return m, nil
}

func newMongoDatabase(m *database.Mongo) *mongo.Database {
	return m.DB
}

// newRedis returns a nil client when REDIS_URI is empty or unreachable.
func newRedis(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisURI == "" {
		logger.Info("REDIS_URI not set; rate limiting, caching and cross-instance order events are disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		logger.Warn("Redis unavailable; continuing without it", zap.Error(err))
		return nil
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

// newPostgres returns nil when POSTGRES_URI is empty.
func newPostgres(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	if cfg.PostgresURI == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := database.InitPostgresTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init postgres tables: %w", err)
	}
	logger.Info("activity logs stored in PostgreSQL")

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func newStore(db *mongo.Database, pg *sql.DB) *repository.Store {
	store := repository.NewMongoStore(db)
	if pg != nil {
		store.ActivityLogs = repository.NewPostgresActivityLogRepo(pg)
	}
	return store
}

func newUserRepository(store *repository.Store) repository.UserRepository {
	return store.Users
}

func newActivityRecorder(store *repository.Store, logger *zap.Logger) *services.ActivityRecorder {
	return services.NewActivityRecorder(store.ActivityLogs, logger)
}

func newMealService(cfg *config.Config, store *repository.Store, cache *services.CacheService) *services.MealService {
	return services.NewMealService(cfg, store.Meals, cache)
}

func newOrderHub(lc fx.Lifecycle, client *redis.Client, logger *zap.Logger) *services.OrderHub {
	hub := services.NewOrderHub(client, logger)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return hub
}

type handlerParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Store    *repository.Store
	Tokens   *services.TokenService
	Auth     *services.AuthService
	Users    *services.UserService
	Meals    *services.MealService
	Activity *services.ActivityRecorder
	Google   *services.GoogleProvider
	Uploader services.ImageUploader
	Orders   *services.OrderHub
	Limiter  *middleware.RedisRateLimiter
}

func newHandler(p handlerParams) *handlers.Handler {
	return handlers.New(handlers.Deps{
		Config:   p.Config,
		Logger:   p.Logger,
		Store:    p.Store,
		Tokens:   p.Tokens,
		Auth:     p.Auth,
		Users:    p.Users,
		Meals:    p.Meals,
		Activity: p.Activity,
		Google:   p.Google,
		Uploader: p.Uploader,
		Orders:   p.Orders,
		Limiter:  p.Limiter,
	})
}

// newAuthLimiter is shared by the /auth/* routes and the admin unblock endpoint.
func newAuthLimiter(client *redis.Client, logger *zap.Logger) *middleware.RedisRateLimiter {
	return middleware.NewRedisRateLimiter(client, logger)
}

func newRouterOptions(lc fx.Lifecycle, cfg *config.Config, limiter *middleware.RedisRateLimiter, logger *zap.Logger) routes.Options {
	opts := routes.Options{
		AuthLimiter: limiter,
	}
	if cfg.IsProduction() {
		opts.Security = middleware.NewProductionSecurity(cfg.AllowedHost)
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				opts.Security.Stop()
				return nil
			},
		})
		logger.Info("production security enabled (security headers, per-IP and sign-in rate limiting)")
	}
	return opts
}

func newRouter(h *handlers.Handler, logger *zap.Logger, opts routes.Options) http.Handler {
	return routes.NewRouter(h, logger, opts)
}

// checkConfig reports missing settings that degrade the service without
// stopping it.
func checkConfig(cfg *config.Config, logger *zap.Logger) {
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set; sign-in and protected routes will fail with 500")
	}
	if !cfg.SMTPEnabled() {
		logger.Warn("SMTP_HOST not set; emails are logged instead of sent")
	}
	if !cfg.GoogleEnabled() {
		logger.Info("Google sign-in disabled (GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set)")
	}
	if !cfg.CloudinaryEnabled() {
		logger.Info("Cloudinary credentials not found; meal image uploads are disabled")
	}
}

func startHTTPServer(lc fx.Lifecycle, cfg *config.Config, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("MealMate backend running", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
