package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	History  HistoryConfig
	State    StateConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path       string
	Migrations string
}

// ImportConfig holds spreadsheet layout settings.
type ImportConfig struct {
	HeaderRows int `mapstructure:"header_rows"`
}

// HistoryConfig holds paging settings.
type HistoryConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// StateConfig locates small state files kept outside the database.
type StateConfig struct {
	LastUpdatePath string `mapstructure:"last_update_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "roadcards")
}

// Load reads configuration from file and env. Env var overrides use prefix ROADCARDS_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "roadcards.db"))
	v.SetDefault("database.migrations", "internal/database/migrations")
	v.SetDefault("import.header_rows", 3)
	v.SetDefault("history.page_size", 10)
	v.SetDefault("state.last_update_path", filepath.Join(dataDir(), "last_update.json"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ROADCARDS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "roadcards"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ROADCARDS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.History.PageSize <= 0 {
		c.History.PageSize = 10
	}
	if c.Import.HeaderRows <= 0 {
		c.Import.HeaderRows = 3
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("ROADCARDS_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "roadcards", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("import.header_rows", cfg.Import.HeaderRows)
	v.Set("history.page_size", cfg.History.PageSize)
	v.Set("state.last_update_path", cfg.State.LastUpdatePath)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
