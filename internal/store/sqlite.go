package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/portfolio/internal/model"
)

// MemoryPath opens an ephemeral database that lives as long as the store.
const MemoryPath = ":memory:"

// SQLiteStore implements Store on a local SQLite database.
//
// It is the single writer of the database: one connection, one unit of
// work, all access serialised by mu.
type SQLiteStore struct {
	db   *sqlx.DB
	path string

	mu      sync.Mutex
	tx      *sqlx.Tx
	commits uint64
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
// Pass MemoryPath for a store without durability.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every in-memory connection is its own database, and the unit of
	// work needs the connection it began on.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys so deleting a project cascades to its items.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path, or MemoryPath.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close discards any unsaved changes and closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	s.mu.Unlock()
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// conn runs fn against the open unit of work, or the database in
// autocommit mode when nothing is pending.
func (s *SQLiteStore) conn(fn func(q sqlx.ExtContext) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx != nil {
		return fn(s.tx)
	}
	return fn(s.db)
}

// write runs fn inside the unit of work, opening it first if needed.
// A unit of work opened by a failing fn is discarded.
func (s *SQLiteStore) write(fn func(tx *sqlx.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opened := false
	if s.tx == nil {
		// Not bound to a request context: a cancelled context would roll
		// back changes that belong to later calls.
		tx, err := s.db.BeginTxx(context.Background(), nil)
		if err != nil {
			return &PersistenceError{Op: "begin", Err: err}
		}
		s.tx = tx
		opened = true
	}

	if err := fn(s.tx); err != nil {
		if opened {
			_ = s.tx.Rollback()
			s.tx = nil
		}
		return err
	}
	return nil
}

// HasChanges reports whether a unit of work is pending.
func (s *SQLiteStore) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}

// Save commits the pending unit of work. It does nothing, and writes
// nothing, when there are no changes.
func (s *SQLiteStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}

	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}
	s.commits++
	return nil
}

// Rollback discards the pending unit of work, if any.
func (s *SQLiteStore) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil {
		return &PersistenceError{Op: "rollback", Err: err}
	}
	return nil
}

// Commits returns how many units of work have been committed.
func (s *SQLiteStore) Commits() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Lookup resolves an identity URI to a *model.Project or *model.Item.
func (s *SQLiteStore) Lookup(ctx context.Context, uri string) (any, error) {
	kind, id, err := model.ParseIdentity(uri)
	if err != nil {
		return nil, err
	}

	switch kind {
	case model.KindProject:
		return s.GetProject(ctx, id)
	case model.KindItem:
		return s.GetItem(ctx, id)
	default:
		return nil, fmt.Errorf("looking up %s: %w", uri, model.ErrInvalidIdentity)
	}
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
