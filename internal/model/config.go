package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig holds settings for the persistence layer.
type StorageConfig struct {
	// Path is the SQLite database file. Empty means DefaultDataPath().
	Path string `mapstructure:"path" yaml:"path"`

	// SaveDebounceMS is how long save requests are coalesced before the
	// task set is written.
	SaveDebounceMS int `mapstructure:"save_debounce_ms" yaml:"save_debounce_ms"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
}

// RolloverConfig holds settings for the daily rollover.
type RolloverConfig struct {
	// Timezone is an IANA zone name used to decide when a day ends.
	// Empty means the local zone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Rollover RolloverConfig `mapstructure:"rollover" yaml:"rollover"`
}

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

const defaultSaveDebounceMS = 100

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/doitlater/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDataPath returns the default SQLite database location.
func DefaultDataPath() string {
	return filepath.Join(configDir(), "doitlater.db")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "doitlater")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Path:           DefaultDataPath(),
			SaveDebounceMS: defaultSaveDebounceMS,
		},
		Display: DisplayConfig{
			Theme: ThemeDark,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables prefixed with DOITLATER_ override file values.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("doitlater")
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.path", DefaultDataPath())
	v.SetDefault("storage.save_debounce_ms", defaultSaveDebounceMS)
	v.SetDefault("display.theme", ThemeDark)
	v.SetDefault("log.level", "warn")
	v.SetDefault("rollover.timezone", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultDataPath()
	}
	if cfg.Storage.SaveDebounceMS <= 0 {
		cfg.Storage.SaveDebounceMS = defaultSaveDebounceMS
	}
	if cfg.Display.Theme != ThemeLight {
		cfg.Display.Theme = ThemeDark
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
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

	v.Set("storage", cfg.Storage)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("rollover", cfg.Rollover)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// SaveDebounce returns the save coalescing delay.
func (c *AppConfig) SaveDebounce() time.Duration {
	return time.Duration(c.Storage.SaveDebounceMS) * time.Millisecond
}

// Location resolves the rollover timezone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Rollover.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Rollover.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Rollover.Timezone, err)
	}
	return loc, nil
}
