package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wpinrui/tp/internal/persistence"
	"github.com/wpinrui/tp/internal/repository"
	"github.com/wpinrui/tp/internal/service"
	"github.com/wpinrui/tp/pkg/cache"
	"github.com/wpinrui/tp/pkg/config"
	"github.com/wpinrui/tp/pkg/database"
	"github.com/wpinrui/tp/pkg/logger"
	"github.com/wpinrui/tp/pkg/storage"
)

// app holds every long-lived component of one process.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	data     *persistence.DataStore
	metrics  *service.MetricsService
	notifier *service.ViewNotifier
	commands *service.CommandService
	exports  *service.ExportService
	redis    *redis.Client

	// problems are the load failures that made a collection start empty.
	problems []error
}

func newApp(ctx context.Context, envFile string) (*app, error) {
	cfg, cfgErr := config.Load(envFile)
	if cfg == nil {
		return nil, fmt.Errorf("load config: %w", cfgErr)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfgErr != nil {
		logr.Warn("config file could not be read, using defaults", zap.String("file", envFile), zap.Error(cfgErr))
	}

	a := &app{cfg: cfg, logger: logr}
	if cfg.Metrics.Enabled {
		a.metrics = service.NewMetricsService()
	}

	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	a.data = persistence.NewDataStore(backend, a.metrics, logr)

	var publisher *repository.ViewEventRepository
	if cfg.Events.RedisEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, view events stay local", zap.Error(err))
		} else {
			a.redis = client
			publisher = repository.NewViewEventRepository(client, cfg.Events.Channel)
		}
	}
	if publisher != nil {
		a.notifier = service.NewViewNotifier(publisher, a.metrics, logr)
	} else {
		a.notifier = service.NewViewNotifier(nil, a.metrics, logr)
	}
	a.notifier.Start(ctx)

	model := service.NewModelManager(logr)
	model.Subscribe(a.notifier.Notify)
	a.commands = service.NewCommandService(model, a.data, validator.New(), a.metrics, logr)

	files, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("prepare exports directory: %w", err)
	}
	a.exports = service.NewExportService(a.commands, files, logr)

	a.problems = a.commands.Load(ctx)
	return a, nil
}

func openBackend(cfg *config.Config) (persistence.Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Storage.SQLitePath, err)
		}
		return persistence.NewSQLiteBackend(db, cfg.Storage.SQLitePath), nil
	case config.DriverJSON, "":
		files, err := storage.NewLocalStorage("")
		if err != nil {
			return nil, err
		}
		return persistence.NewJSONBackend(files, cfg.Storage.StudentsPath, cfg.Storage.LessonsPath), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}

func (a *app) close() {
	if a.notifier != nil {
		a.notifier.Stop()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.data != nil {
		if err := a.data.Close(); err != nil {
			a.logger.Warn("close storage", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
