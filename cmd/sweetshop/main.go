// Command sweetshop serves the Sweet Shop inventory and purchasing API.
//
// @title                       Sweet Shop API
// @version                     1.0.0
// @description                 Inventory and purchasing API for a sweet shop.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/sweetshop/sweetshop-api/internal/api"
	"github.com/sweetshop/sweetshop-api/internal/api/handler"
	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
	"github.com/sweetshop/sweetshop-api/internal/core/service"
	"github.com/sweetshop/sweetshop-api/internal/infrastructure/auth"
	"github.com/sweetshop/sweetshop-api/internal/infrastructure/config"
	mongodb "github.com/sweetshop/sweetshop-api/internal/infrastructure/db/mongo"
	"github.com/sweetshop/sweetshop-api/internal/infrastructure/db/postgres"
	rediscache "github.com/sweetshop/sweetshop-api/internal/infrastructure/db/redis"
	"github.com/sweetshop/sweetshop-api/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// The main logger may not exist yet when config loading fails.
		bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootstrap.Error().Err(err).Msg("sweetshop stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "sweetshop",
		Version: cfg.Version,
	})

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing storage")
		}
	}()

	probes := map[string]handler.Pinger{"database": store.probe}

	// A nil cache disables category caching; it must stay an untyped nil.
	var categories ports.CategoryCache
	if cfg.Redis.Addr != "" {
		client, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, category cache disabled")
		} else {
			defer client.Close()
			categories = rediscache.NewCategoryCache(client, cfg.Catalog.CategoryCacheTTL)
			probes["redis"] = rediscache.NewPinger(client)
		}
	}

	tokens, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	authService := service.NewAuthService(store.repos.Users(), auth.NewBcryptHasher(0), tokens, logger.Component("auth"))
	sweetService := service.NewSweetService(store.repos.Sweets(), categories, cfg.Catalog.MaxSweetPrice, logger.Component("catalog"))
	inventoryService := service.NewInventoryService(store.tx, store.repos.Sweets(), store.repos.Purchases(), logger.Component("inventory"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := api.NewRouter(api.Deps{
		Log:                   logger.Component("http"),
		Auth:                  authService,
		Sweets:                sweetService,
		Inventory:             inventoryService,
		Registry:              reg,
		Metrics:               metrics.New(reg),
		Probes:                probes,
		Version:               cfg.Version,
		CORSOrigins:           cfg.CORSOrigins,
		AdminBootstrapEnabled: cfg.Auth.AdminBootstrapEnabled,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("driver", store.driver).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info().Msg("http server stopped")
	return nil
}

// storage bundles the backend chosen by DATABASE_URL.
type storage struct {
	driver string
	repos  ports.Repositories
	tx     ports.TxManager
	probe  handler.Pinger
	close  func(context.Context) error
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	driver, err := cfg.Driver()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			DSN:   cfg.DatabaseURL,
			Debug: cfg.LogLevel == "debug" || cfg.LogLevel == "trace",
		}, logger.Component("postgres"))
		if err != nil {
			return nil, err
		}
		return &storage{
			driver: driver,
			repos:  postgres.NewRepositories(db),
			tx:     postgres.NewTxManager(db),
			probe:  postgres.NewPinger(db),
			close:  func(context.Context) error { return postgres.Close(db) },
		}, nil

	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.DatabaseURL, Database: cfg.MongoDB})
		if err != nil {
			return nil, err
		}
		repos := mongodb.NewRepositories(db)
		if err := mongodb.EnsureIndexes(ctx, repos); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &storage{
			driver: driver,
			repos:  repos,
			tx:     mongodb.NewTxManager(client, repos),
			probe:  mongodb.NewPinger(client),
			close:  client.Disconnect,
		}, nil
	}
}
