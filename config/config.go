package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. TRADEJOURNAL_SERVER_PORT.
const EnvPrefix = "TRADEJOURNAL"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" envconfig:"SERVER"`
	Storage StorageConfig `json:"storage" yaml:"storage" envconfig:"STORAGE"`
	Logging LoggingConfig `json:"logging" yaml:"logging" envconfig:"LOGGING"`
	Web     WebConfig     `json:"web" yaml:"web" envconfig:"WEB"`
}

// ServerConfig contains HTTP server parameters
type ServerConfig struct {
	Host            string        `json:"host" yaml:"host" envconfig:"LISTEN_HOST"`
	Port            int           `json:"port" yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// StorageConfig says where trades and screenshots live
type StorageConfig struct {
	DBPath         string `json:"db_path" yaml:"db_path" envconfig:"DB_PATH"`
	ImageDir       string `json:"image_dir" yaml:"image_dir" envconfig:"IMAGE_DIR"`
	MaxUploadBytes int64  `json:"max_upload_bytes" yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
}

// LoggingConfig contains logging parameters
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" envconfig:"LEVEL"`
	Format string `json:"format" yaml:"format" envconfig:"FORMAT"` // "text" or "json"
}

// WebConfig points at an optional directory of static front-end files
type WebConfig struct {
	StaticDir string `json:"static_dir,omitempty" yaml:"static_dir,omitempty" envconfig:"STATIC_DIR"`
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			DBPath:         "./trading_journal.db",
			ImageDir:       "./uploads",
			MaxUploadBytes: 16 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the effective configuration: defaults, then the optional
// config file at path, then environment overrides. Variables from the
// given dotenv files (".env" when none are named) are loaded first but
// never replace variables already set. Missing files are ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (YAML, or JSON) on top of
// the defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, c); err != nil {
		if jerr := json.Unmarshal(data, c); jerr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	if c.Storage.ImageDir == "" {
		return fmt.Errorf("storage.image_dir is required")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("storage.max_upload_bytes must be positive")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging.level: %s", c.Logging.Level)
	}
	return nil
}
