package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all temperance configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Serve   ServeConfig   `toml:"serve"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
}

// ServeConfig holds the offline cache proxy settings.
type ServeConfig struct {
	Addr       string `toml:"addr"`
	Upstream   string `toml:"upstream"`
	Generation string `toml:"generation,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Serve: ServeConfig{
			Addr:     "127.0.0.1:8799",
			Upstream: "http://127.0.0.1:3000",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "temperance")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "temperance")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the configured data directory, or the XDG default.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "temperance")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "temperance")
}

// DBPath returns the store database path inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir(), "temperance.db")
}

// CacheDir returns the offline resource cache root.
func (c Config) CacheDir() string {
	return filepath.Join(c.DataDir(), "cache")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
