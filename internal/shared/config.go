package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Store       StoreConfig       `toml:"store"`
	Server      ServerConfig      `toml:"server"`
	Importer    ImporterConfig    `toml:"importer"`
}

// CredentialsConfig contains upstream service credentials.
type CredentialsConfig struct {
	YouTube YouTubeConfig `toml:"youtube"`
}

// YouTubeConfig contains YouTube Data API settings.
type YouTubeConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// StoreConfig selects and configures the document store backend.
//
// Backend is either "sqlite" (Path) or "firebase" (URL, Secret).
type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	URL     string `toml:"url"`
	Secret  string `toml:"secret"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ImporterConfig contains sync engine tuning knobs.
type ImporterConfig struct {
	Workers   int     `toml:"workers"`
	PageSize  int     `toml:"page_size"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(&config)
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	applyEnv(&config)
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidInput, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv lets environment variables (usually loaded from .env) override file values.
func applyEnv(c *Config) {
	if v := os.Getenv("VIDEOTITAN_YOUTUBE_KEY"); v != "" {
		c.Credentials.YouTube.APIKey = v
	}
	if v := os.Getenv("VIDEOTITAN_STORE_URL"); v != "" {
		c.Store.URL = v
	}
	if v := os.Getenv("VIDEOTITAN_STORE_SECRET"); v != "" {
		c.Store.Secret = v
	}
}
