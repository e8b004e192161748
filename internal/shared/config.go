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
	API      APIConfig      `toml:"api"`
	Files    FilesConfig    `toml:"files"`
	Study    StudyConfig    `toml:"study"`
	Database DatabaseConfig `toml:"database"`
}

// APIConfig contains settings for the Scribbly processing backend.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`

	// OAuth2 client-credentials settings; when TokenURL is set the client
	// authenticates with a bearer token instead of the API key header.
	TokenURL     string   `toml:"token_url"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Scopes       []string `toml:"scopes"`
}

// FilesConfig contains upload validation limits.
type FilesConfig struct {
	MaxSizeMB      int      `toml:"max_size_mb"`
	SupportedTypes []string `toml:"supported_types"`
}

// StudyConfig contains study-material generation limits.
type StudyConfig struct {
	MaxFlashcards     int `toml:"max_flashcards"`
	DefaultFlashcards int `toml:"default_flashcards"`
	MinTextLength     int `toml:"min_text_length"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
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

	return &config, nil
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

// MaxFileBytes returns the upload size limit in bytes.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.Files.MaxSizeMB) * 1024 * 1024
}

// SupportsFileType reports whether the given extension (without dot) is accepted for upload.
func (c *Config) SupportsFileType(ext string) bool {
	for _, t := range c.Files.SupportedTypes {
		if t == ext {
			return true
		}
	}
	return false
}
