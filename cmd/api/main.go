package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/greenops/carbon-management/internal/api"
	"github.com/greenops/carbon-management/internal/api/middleware"
	"github.com/greenops/carbon-management/internal/core/service"
	"github.com/greenops/carbon-management/internal/infrastructure/config"
	mongodb "github.com/greenops/carbon-management/internal/infrastructure/db/mongo"
	"github.com/greenops/carbon-management/internal/infrastructure/db/postgres"
	redisdb "github.com/greenops/carbon-management/internal/infrastructure/db/redis"
	"github.com/greenops/carbon-management/internal/infrastructure/http/handlers"
	"github.com/greenops/carbon-management/internal/infrastructure/queue"
	"github.com/greenops/carbon-management/internal/infrastructure/security"
	"github.com/greenops/carbon-management/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "carbon-api:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "carbon-api",
		Env:     cfg.Env,
	})

	// --- Stores ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.URL,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongodb.Disconnect(mongoClient) }()

	auditRepo := mongodb.NewAuditRepository(mongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit indexes not ensured")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	// --- Audit trail ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, cfg.Audit.Buffer, auditRepo, log)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	// --- Services ---
	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.JWTExpiresIn,
	})
	if err != nil {
		return err
	}
	authSvc := service.NewAuthService(
		postgres.NewIdentityRepository(db),
		security.NewBcryptHasher(bcrypt.DefaultCost),
		tokens,
		dispatcher,
		log,
	)
	carbonSvc := service.NewCarbonService(postgres.NewCarbonRepository(db), log)
	deviceSvc := service.NewDeviceService(postgres.NewDeviceRepository(db), log)

	var limiter middleware.WindowCounter
	if cfg.RateLimit.Enabled {
		limiter = redisdb.NewWindowCounter(rdb)
	}

	e := api.NewRouter(api.Deps{
		Log:               log,
		Production:        cfg.IsProduction(),
		CORSOrigins:       splitList(cfg.CORSOrigin),
		Tokens:            tokens,
		Audit:             dispatcher,
		Auth:              authSvc,
		Carbon:            carbonSvc,
		Devices:           deviceSvc,
		RegistrationRoles: cfg.Roles(),
		RateLimiter:       limiter,
		RateLimit: middleware.RateLimitConfig{
			Scope:  "auth",
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		},
		Readiness: map[string]handlers.Pinger{
			"postgres": handlers.PingFunc(sqlDB.PingContext),
			"mongodb":  handlers.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
			"redis":    handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("http server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
