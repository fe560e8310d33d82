package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/portfolio/internal/app"
	"github.com/nhle/portfolio/internal/award"
	"github.com/nhle/portfolio/internal/credential"
	"github.com/nhle/portfolio/internal/gating"
	"github.com/nhle/portfolio/internal/logging"
	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/reminder"
	"github.com/nhle/portfolio/internal/store"
)

// environment is everything one command invocation runs against.
type environment struct {
	cfg        *model.AppConfig
	logger     *zap.Logger
	store      *store.SQLiteStore
	index      *store.SearchIndex
	center     *store.NotificationCenter
	queue      *reminder.MainQueue
	controller *app.Controller
}

// openEnvironment opens the store and builds the controller. A catalog or
// migration failure is fatal.
func openEnvironment(cfg *model.AppConfig) (*environment, error) {
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(cfg.Awards.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading award catalog: %w", err)
	}

	path := cfg.Database.Path
	if cfg.Database.InMemory {
		path = store.MemoryPath
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	settings, err := openSettings(cfg.Settings.Backend, s)
	if err != nil {
		s.Close()
		return nil, err
	}

	e := &environment{
		cfg:    cfg,
		logger: logger,
		store:  s,
		index:  store.NewSearchIndex(s),
		center: store.NewNotificationCenter(s, cfg.Reminders.AutoGrant),
		queue:  reminder.NewMainQueue(8),
	}

	policy := gating.Policy{
		FreeProjectLimit: cfg.Gating.FreeProjectLimit,
		ReviewThreshold:  cfg.Gating.ReviewThreshold,
	}
	e.controller, err = app.New(app.Deps{
		Store:           s,
		Catalog:         catalog,
		Index:           e.index,
		Center:          e.center,
		Settings:        settings,
		Policy:          &policy,
		Prompter:        gating.LogPrompter{Logger: logger.Named("review")},
		Scenes:          gating.StaticScenes{{ID: "terminal", State: gating.SceneForegroundActive}},
		Dispatcher:      e.queue,
		ReminderTimeout: time.Duration(cfg.Reminders.TimeoutSec) * time.Second,
		Logger:          logger,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	logger.Debug("environment ready",
		zap.String("db", s.Path()),
		zap.Int("awards", catalog.Len()),
		zap.String("settings", cfg.Settings.Backend))
	return e, nil
}

func loadCatalog(path string) (*award.Catalog, error) {
	if path == "" {
		return award.LoadDefault()
	}
	return award.LoadFile(path)
}

func openSettings(backend string, s *store.SQLiteStore) (store.Settings, error) {
	switch backend {
	case "keyring":
		ks, err := credential.NewSettings()
		if err != nil {
			return nil, fmt.Errorf("opening keyring settings: %w", err)
		}
		return ks, nil
	case "sqlite", "":
		return store.NewSettingsStore(s), nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q", backend)
	}
}

// watch republishes changes other writers make to the database file until
// ctx is done. It is a no-op for in-memory stores.
func (e *environment) watch(ctx context.Context) (stop func(), err error) {
	if e.store.Path() == store.MemoryPath {
		return func() {}, nil
	}
	w, err := store.NewWatcher(e.store.Path(), store.DefaultWatchDebounce, e.logger.Named("watcher"))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	go w.Run(ctx)
	go e.controller.Follow(ctx, w.Changes())

	return func() {
		cancel()
		if err := w.Close(); err != nil {
			e.logger.Debug("closing watcher failed", zap.Error(err))
		}
	}, nil
}

// Close releases the store. Pending changes are discarded.
func (e *environment) Close() error {
	return e.store.Close()
}
