// Command server starts the event management HTTP API.
//
// @title                       Event Management API
// @version                     1.0
// @description                 Events, attendees and token-based authentication with role and ownership checks.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventhub/event-management/internal/api"
	"github.com/eventhub/event-management/internal/api/handler"
	"github.com/eventhub/event-management/internal/api/metrics"
	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/service"
	"github.com/eventhub/event-management/internal/core/token"
	mongostore "github.com/eventhub/event-management/internal/infrastructure/db/mongo"
	redisstore "github.com/eventhub/event-management/internal/infrastructure/db/redis"
	"github.com/eventhub/event-management/internal/infrastructure/queue"
	"github.com/eventhub/event-management/internal/pkg/config"
	"github.com/eventhub/event-management/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "event-management",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting")

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}

// run owns every resource opened after config load. Deferred cleanup drains
// the audit queue before the stores it writes to are closed.
func run(cfg *config.Config) error {
	log := logger.Get()

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	defer func() { _ = rdb.Close() }()

	users := mongostore.NewUserRepository(db)
	events := mongostore.NewEventRepository(db)
	attendees := mongostore.NewAttendeeRepository(db)

	// --- Audit trail ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, mongostore.NewAuditRepository(db), logger.Component("audit"))
	audit.OnDrop(func(rec domain.AuditRecord) {
		metrics.AuditDroppedTotal.WithLabelValues(string(rec.Action)).Inc()
	})
	audit.Start(auditCtx)
	defer func() {
		stopAudit()
		audit.Wait()
	}()

	// --- Core ---
	codec, err := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, cfg.Auth.JWTIssuer)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}
	if cfg.Auth.BootstrapToken == "" {
		log.Warn().Msg("ADMIN_BOOTSTRAP_TOKEN not set, first-admin bootstrap disabled")
	}

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	limiter := redisstore.NewLoginLimiter(rdb, redisstore.LimiterConfig{
		MaxFailures: cfg.Auth.LoginMaxFailures,
		Window:      cfg.Auth.LoginWindow,
		BlockFor:    cfg.Auth.LoginBlockFor,
	})
	authLog := logger.Component("auth")
	eventLog := logger.Component("events")

	e := api.NewRouter(api.Dependencies{
		Auth:       service.NewAuthService(users, hasher, codec, limiter, audit, authLog),
		Bootstrap:  service.NewBootstrapService(users, hasher, cfg.Auth.BootstrapToken, audit, authLog),
		Events:     service.NewEventService(events, attendees, audit, eventLog),
		Attendees:  service.NewAttendeeService(users, events, attendees, audit, eventLog),
		Tokens:     codec,
		Identities: service.NewIdentityResolver(users, cfg.Auth.StrictPrincipal),
		ReadinessChecks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}
