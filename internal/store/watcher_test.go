package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/portfolio/internal/store"
)

func TestWatcherSignalsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "portfolio.db")
	require.NoError(t, os.WriteFile(dbPath, nil, 0o644))

	w, err := store.NewWatcher(dbPath, 150*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
		require.NoError(t, w.Close())
	}()

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-w.Changes():
		t.Fatal("signal for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}

	// A burst of writes to the database and its WAL yields one signal.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte{byte(i)}, 0o644))
		require.NoError(t, os.WriteFile(dbPath+"-wal", []byte{byte(i)}, 0o644))
	}
	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal")
	}
	select {
	case <-w.Changes():
		t.Fatal("burst produced more than one signal")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherRejectsMemory(t *testing.T) {
	_, err := store.NewWatcher(store.MemoryPath, 0, nil)
	assert.Error(t, err)
}
