package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mission-control/internal/api"
	"mission-control/internal/api/handlers"
	"mission-control/internal/budget"
	"mission-control/internal/chat"
	"mission-control/internal/config"
	"mission-control/internal/dashboard"
	"mission-control/internal/logging"
	"mission-control/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Optional path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Server.LogLevel, !cfg.Production())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// Data store is optional: without it every read route falls back to fixed data.
	var ds handlers.DataStore
	var src dashboard.Source
	if cfg.HasDatabase() {
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		st, err := store.Open(openCtx, cfg.Database.Driver, cfg.Database.URL)
		cancel()
		if err != nil {
			logger.Warn("database unavailable, continuing without it",
				zap.String("driver", cfg.Database.Driver),
				zap.Error(err),
			)
		} else {
			defer func() { _ = st.Close() }()
			ds, src = st, st
			logger.Info("database connected", zap.String("dialect", string(st.Dialect())))
		}
	} else {
		logger.Info("no database configured, serving fallback data")
	}

	cache := dashboard.NewCache(cfg.Dashboard.CacheTTL, 5*time.Minute)
	defer cache.Close()
	svc := dashboard.NewService(src, cache, logger)

	var completer chat.Completer
	if cfg.Chat.APIKey != "" {
		gc, err := chat.NewGeminiCompleter(ctx, cfg.Chat.APIKey, cfg.Chat.Model)
		if err != nil {
			return fmt.Errorf("chat client: %w", err)
		}
		completer = gc
		logger.Info("chat enabled", zap.String("model", gc.Model()))
	} else {
		logger.Info("chat disabled: GOOGLE_GENERATIVE_AI_API_KEY is not set")
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Deps{
		Log:            logger,
		Dashboard:      svc,
		Store:          ds,
		Completer:      completer,
		Snapshots:      budget.NewSnapshotStore(cfg.Budget.SnapshotDir),
		CronSecret:     cfg.Cron.Secret,
		EnforceCron:    cfg.Production(),
		StaticDir:      cfg.Server.StaticDir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
