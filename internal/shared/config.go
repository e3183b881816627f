package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Share   ShareConfig   `toml:"share"`
	Server  ServerConfig  `toml:"server"`
	Menu    MenuConfig    `toml:"menu"`
}

// StorageConfig locates the three progress backends.
type StorageConfig struct {
	DataDir      string `toml:"data_dir"`
	PebbleDir    string `toml:"pebble_dir"`
	SQLitePath   string `toml:"sqlite_path"`
	SessionDir   string `toml:"session_dir"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ShareConfig controls the share link that carries progress in its fragment.
type ShareConfig struct {
	BaseURL  string `toml:"base_url"`
	LinkFile string `toml:"link_file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// MenuConfig contains menu source settings.
type MenuConfig struct {
	DefaultName string `toml:"default_name"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DataDir returns the configured data directory, defaulting to ~/.breakfast.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".breakfast"), nil
}

// PebblePath returns the directory of the fast key-value store.
func (c *Config) PebblePath() (string, error) {
	return c.resolve(c.Storage.PebbleDir)
}

// SQLitePath returns the path of the structured store database.
func (c *Config) SQLitePath() (string, error) {
	if c.Storage.SQLitePath == ":memory:" {
		return c.Storage.SQLitePath, nil
	}
	return c.resolve(c.Storage.SQLitePath)
}

// LinkPath returns the file holding the current share link.
func (c *Config) LinkPath() (string, error) {
	return c.resolve(c.Share.LinkFile)
}

// SessionDir returns the root of the session-scoped store.
func (c *Config) SessionDir() string {
	if c.Storage.SessionDir != "" {
		return c.Storage.SessionDir
	}
	return filepath.Join(os.TempDir(), "breakfast-sessions")
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) resolve(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p), nil
}
