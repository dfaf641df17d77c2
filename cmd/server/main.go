package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etymograph/moderation/internal/cache"
	"github.com/etymograph/moderation/internal/config"
	"github.com/etymograph/moderation/internal/database"
	"github.com/etymograph/moderation/internal/handler"
	"github.com/etymograph/moderation/internal/logging"
	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/moderation"
	"github.com/etymograph/moderation/internal/scheduler"
	"github.com/etymograph/moderation/internal/service"
	"github.com/etymograph/moderation/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Crisis dedup claims live in Redis when it is reachable, otherwise in process
	var claims service.Claimer
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logger.Warn("failed to connect to redis, using in-memory crisis dedup", zap.Error(err))
		claims = cache.NewMemoryCache(10000, cfg.CrisisDedupTTL)
	} else {
		defer redisCache.Close()
		claims = redisCache
	}

	svc := service.New(logger, store.NewGormStore(db), moderation.NewClassifier(moderation.DefaultLexicon()), claims, service.Config{
		CrisisResources: model.CrisisResources{
			Hotline:  cfg.CrisisHotline,
			URL:      cfg.CrisisURL,
			TextLine: cfg.CrisisTextLine,
		},
		CrisisDedupTTL: cfg.CrisisDedupTTL,
	})

	// Cancelled on SIGINT/SIGTERM; stops the reconciler and the HTTP server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	routerCfg := handler.RouterConfig{
		JWTSecret:     cfg.JWTSecret,
		AdminEmails:   cfg.AdminEmails,
		TriggerSecret: cfg.TriggerSecret,
	}

	// Initialize and start background reconciler if enabled
	if cfg.ReconcileEnabled {
		reconciler := scheduler.NewReconcileScheduler(logger, svc, cfg.ReconcileInterval)
		go reconciler.Start(ctx)
		routerCfg.SchedulerStatus = reconciler.GetStatus
		logger.Info("background reconciler started", zap.Duration("interval", cfg.ReconcileInterval))
	}

	if cfg.TriggerSecret == "" {
		logger.Warn("TRIGGER_SECRET is empty, content trigger endpoint is unauthenticated")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handler.NewRouter(handler.NewModerationHandler(svc), routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	if err := runServer(ctx, logger, srv); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// runServer serves until ctx is cancelled, then shuts srv down gracefully.
// It returns early with the listen error if srv cannot start.
func runServer(ctx context.Context, logger *zap.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain in-flight requests
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
