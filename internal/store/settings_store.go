package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// GetSetting retrieves a setting value by key. Missing keys return "".
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn(func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &value, "SELECT value FROM settings WHERE key = ?", key)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting value.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	err := s.conn(func(q sqlx.ExtContext) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// SettingsStore adapts the settings table to the Settings interface.
type SettingsStore struct {
	store *SQLiteStore
}

var _ Settings = (*SettingsStore)(nil)

// NewSettingsStore returns Settings backed by s.
func NewSettingsStore(s *SQLiteStore) *SettingsStore {
	return &SettingsStore{store: s}
}

// Bool reads a boolean setting; missing keys are false.
func (ss *SettingsStore) Bool(key string) (bool, error) {
	v, err := ss.store.GetSetting(context.Background(), key)
	if err != nil || v == "" {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing setting %q: %w", key, err)
	}
	return b, nil
}

// SetBool writes a boolean setting.
func (ss *SettingsStore) SetBool(key string, value bool) error {
	return ss.store.SetSetting(context.Background(), key, strconv.FormatBool(value))
}
