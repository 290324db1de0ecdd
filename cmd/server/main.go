package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront-api/internal/api"
	"github.com/shopfront/storefront-api/internal/api/handler"
	"github.com/shopfront/storefront-api/internal/core/domain"
	"github.com/shopfront/storefront-api/internal/core/service"
	"github.com/shopfront/storefront-api/internal/infrastructure/db/mongo"
	"github.com/shopfront/storefront-api/internal/infrastructure/db/redis"
	"github.com/shopfront/storefront-api/internal/infrastructure/queue"
	"github.com/shopfront/storefront-api/internal/infrastructure/security"
	"github.com/shopfront/storefront-api/internal/pkg/config"
	"github.com/shopfront/storefront-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title           Storefront API
// @version         1.0
// @description     Authentication, checkout and order management for the storefront.
// @BasePath        /
// @securityDefinitions.apikey TokenAuth
// @in              header
// @name            Authorization
func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Security ---
	hasher := security.NewPasswordHasher()
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// --- Repositories ---
	users := mongo.NewUserRepository(db)
	orders := mongo.NewOrderRepository(db, log)
	products := mongo.NewProductRepository(db)
	statusEvents := mongo.NewStatusEventRepository(db)
	limiter := redis.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockWindow)

	// --- Async status audit ---
	auditor := queue.NewAuditDispatcher(cfg.Order.AuditWorkers, statusEvents, log)
	auditor.Start(ctx)

	// --- Services ---
	authSvc := service.NewAuthService(users, hasher, tokens, limiter, log)

	policy := domain.AnyTransition
	if cfg.Order.StrictTransitions {
		policy = domain.TerminalLock
	}
	orderSvc := service.NewOrderService(orders, products, log,
		service.WithTransitionPolicy(policy),
		service.WithStatusAuditor(auditor),
	)

	e := api.NewRouter(api.Dependencies{
		Users:        users,
		Tokens:       tokens,
		AuthService:  authSvc,
		OrderService: orderSvc,
		HealthChecks: map[string]handler.PingFunc{
			"mongodb": mongo.Pinger(mongoClient),
			"redis":   redis.Pinger(rdb),
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
