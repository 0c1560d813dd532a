package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/router"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	"github.com/noah-isme/sma-timetable-api/pkg/storage"
)

// @title SMA Timetable API
// @version 1.0.0
// @description Weekly timetable ingestion, clash detection, calendar projection and substitute lookup
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	location := cfg.Timetable.LoadLocation()
	validate := validator.New()
	metrics := service.NewMetricsService()
	table := repository.NewScheduleTableRepository()
	checks := make(map[string]handler.Pinger)

	var eventCache *service.CacheService
	if cfg.EventCache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("event cache disabled: redis unavailable", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, "timetable", logr)
			defer cacheRepo.Close() //nolint:errcheck
			eventCache = service.NewCacheService(cacheRepo, metrics, cfg.EventCache.TTL, logr, true)
			checks["redis"] = cache.Pinger{Client: client}
		}
	}

	var substitutionRepo *repository.SubstitutionRepository
	if cfg.Substitutions.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("substitution store: %w", err)
		}
		defer db.Close() //nolint:errcheck
		if err := database.Migrate(db, logr); err != nil {
			return err
		}
		substitutionRepo = repository.NewSubstitutionRepository(db)
		checks["postgres"] = db
	}

	archiver, queue, err := newArchiver(cfg, logr)
	if err != nil {
		return err
	}
	queue.Start(ctx)
	defer queue.Stop()

	timetableSvc := service.NewTimetableService(table, optionalCache(eventCache), archiver, metrics, validate, logr, service.TimetableServiceConfig{
		DefaultWindow:  cfg.Timetable.DefaultWindow,
		MaxWindow:      cfg.Timetable.MaxWindow,
		Location:       location,
		CacheTTL:       cfg.EventCache.TTL,
		MaxUploadBytes: cfg.Uploads.MaxFileBytes,
	})
	substitutionSvc := service.NewSubstitutionService(table, optionalStore(substitutionRepo), metrics, validate, logr, location)

	engine := router.Setup(cfg, router.Handlers{
		Timetable:    handler.NewTimetableHandler(timetableSvc, cfg.Uploads.MaxFileBytes),
		Substitution: handler.NewSubstitutionHandler(substitutionSvc),
		Metrics:      handler.NewMetricsHandler(metrics, checks),
	}, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("event_cache", eventCache != nil),
			zap.Bool("substitutions", substitutionRepo != nil),
			zap.String("location", location.String()),
		)
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

	logr.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newArchiver(cfg *config.Config, logr *zap.Logger) (*service.UploadArchiver, *jobs.Queue, error) {
	store, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		return nil, nil, fmt.Errorf("upload storage: %w", err)
	}
	archiver := service.NewUploadArchiver(store, cfg.Uploads.Retention, logr)
	queue := jobs.NewQueue("upload-archive", archiver.Handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 16,
		MaxRetries: 2,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	archiver.AttachQueue(queue)
	return archiver, queue, nil
}

// optionalCache keeps a disabled cache a true nil interface.
func optionalCache(c *service.CacheService) service.EventCache {
	if c == nil {
		return nil
	}
	return c
}

func optionalStore(r *repository.SubstitutionRepository) service.SubstitutionStore {
	if r == nil {
		return nil
	}
	return r
}
