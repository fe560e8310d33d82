package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultWatchDebounce coalesces bursts of file events into one signal.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher signals when the database file (or its WAL) is written. A
// replication agent syncing the file from another device is the usual
// writer. Our own commits fire too.
type Watcher struct {
	fw       *fsnotify.Watcher
	base     string
	debounce time.Duration
	changes  chan struct{}
	logger   *zap.Logger
}

// NewWatcher watches the directory holding dbPath.
func NewWatcher(dbPath string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if dbPath == MemoryPath {
		return nil, fmt.Errorf("cannot watch an in-memory database")
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(dbPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(dbPath), err)
	}

	return &Watcher{
		fw:       fw,
		base:     filepath.Base(dbPath),
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		logger:   logger,
	}, nil
}

// Changes receives one value per debounced burst of writes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run pumps file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), w.base) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// A signal is already pending.
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("database watcher error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
