package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation defaults applied when no saved state exists.
type UIConfig struct {
	Theme       string
	SidebarOpen bool `mapstructure:"sidebar_open"`
}

// LogConfig controls where dispatch logs go. An empty file means stderr for
// CLI commands and no logging for the TUI.
type LogConfig struct {
	File     string
	Dispatch bool
}

// Load reads configuration from file and env. Env var overrides use prefix GLOBALSTATE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "globalstate", "globalstate.db"))
	v.SetDefault("ui.theme", "light")
	v.SetDefault("ui.sidebar_open", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.dispatch", false)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("GLOBALSTATE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "globalstate"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("GLOBALSTATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// filePath is where SaveUI writes: GLOBALSTATE_CONFIG if set, else the
// default location Load searches.
func filePath() string {
	if p := os.Getenv("GLOBALSTATE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "globalstate", "config.toml")
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// SaveUI stores ui as the [ui] section of the config file, creating the file
// if needed. Other keys already in the file are kept as they are; defaults,
// env overrides and command-line flags are never written.
// The TUI uses it to remember the preferred theme.
func SaveUI(ui UIConfig) error {
	path := filePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("read config: %w", err)
	}
	v.Set("ui.theme", ui.Theme)
	v.Set("ui.sidebar_open", ui.SidebarOpen)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
