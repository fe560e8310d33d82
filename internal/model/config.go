package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig controls where the store keeps its data.
type DatabaseConfig struct {
	// Path is the SQLite file. Ignored when InMemory is set.
	Path string `mapstructure:"path" yaml:"path"`

	// InMemory keeps all data in process memory (tests, previews).
	InMemory bool `mapstructure:"in_memory" yaml:"in_memory"`

	// WatchChanges signals observers when another writer touches the file.
	WatchChanges bool `mapstructure:"watch_changes" yaml:"watch_changes"`
}

// AwardsConfig points at an optional replacement award catalog.
type AwardsConfig struct {
	CatalogPath string `mapstructure:"catalog_path" yaml:"catalog_path"`
}

// GatingConfig holds the free-tier policy constants.
type GatingConfig struct {
	FreeProjectLimit int `mapstructure:"free_project_limit" yaml:"free_project_limit"`
	ReviewThreshold  int `mapstructure:"review_threshold" yaml:"review_threshold"`
}

// RemindersConfig tunes the reminder scheduler and the local notification center.
type RemindersConfig struct {
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// AutoGrant is the answer the local notification center gives the
	// first time permission is requested.
	AutoGrant bool `mapstructure:"auto_grant" yaml:"auto_grant"`
}

// SettingsConfig selects where user settings such as the unlock flag live.
type SettingsConfig struct {
	// Backend is "sqlite" or "keyring".
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Awards    AwardsConfig    `mapstructure:"awards" yaml:"awards"`
	Gating    GatingConfig    `mapstructure:"gating" yaml:"gating"`
	Reminders RemindersConfig `mapstructure:"reminders" yaml:"reminders"`
	Settings  SettingsConfig  `mapstructure:"settings" yaml:"settings"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns ~/.config/portfolio/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "portfolio", "config.yaml")
}

// DefaultDatabasePath returns ~/.local/share/portfolio/portfolio.db.
func DefaultDatabasePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "portfolio.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "portfolio", "portfolio.db")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Path: DefaultDatabasePath(),
		},
		Gating: GatingConfig{
			FreeProjectLimit: 3,
			ReviewThreshold:  5,
		},
		Reminders: RemindersConfig{
			TimeoutSec: 30,
			AutoGrant:  true,
		},
		Settings: SettingsConfig{
			Backend: "sqlite",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.in_memory", d.Database.InMemory)
	v.SetDefault("database.watch_changes", d.Database.WatchChanges)
	v.SetDefault("awards.catalog_path", "")
	v.SetDefault("gating.free_project_limit", d.Gating.FreeProjectLimit)
	v.SetDefault("gating.review_threshold", d.Gating.ReviewThreshold)
	v.SetDefault("reminders.timeout_sec", d.Reminders.TimeoutSec)
	v.SetDefault("reminders.auto_grant", d.Reminders.AutoGrant)
	v.SetDefault("settings.backend", d.Settings.Backend)
	v.SetDefault("log.level", d.Log.Level)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error. PORTFOLIO_* environment variables
// override file values (PORTFOLIO_GATING_FREE_PROJECT_LIMIT, ...).
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("portfolio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the controller cannot run with.
func (c *AppConfig) Validate() error {
	if c.Gating.FreeProjectLimit < 0 {
		return fmt.Errorf("gating.free_project_limit must not be negative")
	}
	if c.Gating.ReviewThreshold < 0 {
		return fmt.Errorf("gating.review_threshold must not be negative")
	}
	if c.Reminders.TimeoutSec < 0 {
		return fmt.Errorf("reminders.timeout_sec must not be negative")
	}
	switch c.Settings.Backend {
	case "sqlite", "keyring":
	default:
		return fmt.Errorf("settings.backend must be sqlite or keyring, got %q", c.Settings.Backend)
	}
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("database.path is required unless database.in_memory is set")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("awards", cfg.Awards)
	v.Set("gating", cfg.Gating)
	v.Set("reminders", cfg.Reminders)
	v.Set("settings", cfg.Settings)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
