// cmd/connector-manager/main.go
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

	"go.uber.org/zap"

	"sentry-taiga/internal/api"
	"sentry-taiga/internal/common/camunda"
	"sentry-taiga/internal/common/config"
	"sentry-taiga/internal/common/database"
	httpclient "sentry-taiga/internal/common/http"
	"sentry-taiga/internal/common/logger"
	"sentry-taiga/internal/common/observability"
	"sentry-taiga/internal/connector"
	"sentry-taiga/internal/items"
	"sentry-taiga/internal/options"

	tic "sentry-taiga/internal/workers/taiga/taiga-item-create"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync() //nolint:errcheck

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting connector manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("optionsBackend", cfg.Options.Backend),
		zap.Bool("camundaEnabled", cfg.Camunda.Enabled),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()
	readyChecks := map[string]api.ReadyCheck{}

	// --- Option store backend ---
	var (
		rdb *database.RedisClient
		pg  *database.PostgresClient
	)

	switch cfg.Options.Backend {
	case config.OptionsBackendRedis:
		rdb = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		readyChecks["redis"] = rdb.Ping
		zapLog.Info("Redis connected successfully")

	case config.OptionsBackendPostgres:
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres init failed", zap.Error(err))
		}
		defer pg.Close()
		err = retryWithBackoff(func() error {
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		readyChecks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	store, err := options.NewFromConfig(cfg.Options, rdb, pg)
	if err != nil {
		zapLog.Fatal("option store init failed", zap.Error(err))
	}
	if pgStore, ok := store.(*options.PostgresStore); ok {
		if err := pgStore.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("option store schema failed", zap.Error(err))
		}
	}

	// --- Connectors ---
	taigaHTTP := httpclient.NewClient(
		config.GetDuration(cfg.Taiga.HTTPTimeout),
		httpclient.WithUserAgent(cfg.Taiga.UserAgent),
	)
	registry := connector.NewDefaultRegistry(connector.NewTaigaTrackerFactory(taigaHTTP))

	itemService := items.NewService(items.Dependencies{
		Registry:      registry,
		Store:         store,
		Logger:        log,
		Observability: obs,
	})

	// --- Zeebe worker ---
	var (
		camundaClient *camunda.Client
		itemWorker    *tic.Handler
	)
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			camundaClient, err = camunda.NewClientWithConfig(camunda.ConfigFromApp(cfg.Camunda))
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer camundaClient.Close()
		readyChecks["camunda"] = camundaClient.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		itemWorker, err = tic.NewHandler(tic.HandlerOptions{
			AppConfig:     cfg,
			Camunda:       camundaClient,
			Logger:        log,
			Items:         itemService,
			Observability: obs,
		})
		if err != nil {
			zapLog.Fatal("failed to create taiga-item-create handler", zap.Error(err))
		}
		if err := itemWorker.Register(); err != nil {
			zapLog.Fatal("failed to register taiga-item-create worker", zap.Error(err))
		}
	} else {
		zapLog.Info("Camunda disabled, serving HTTP API only")
	}

	// --- Host API ---
	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: api.NewServer(api.Dependencies{
			Items:       itemService,
			Logger:      log,
			ReadyChecks: readyChecks,
		}).Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("Host API listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("Host API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownTimeout := config.GetDuration(cfg.Server.ShutdownTimeout)
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if itemWorker != nil {
		itemWorker.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down host API", zap.Error(err))
	}

	zapLog.Info("Connector manager stopped gracefully")
}
