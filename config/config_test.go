package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr())
	assert.Equal(t, int64(16<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	with := func(fn func(*Config)) *Config {
		c := Default()
		fn(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "zero port",
			config:  with(func(c *Config) { c.Server.Port = 0 }),
			wantErr: true,
			errMsg:  "server.port must be between 1 and 65535",
		},
		{
			name:    "negative timeout",
			config:  with(func(c *Config) { c.Server.ShutdownTimeout = -time.Second }),
			wantErr: true,
			errMsg:  "server timeouts must not be negative",
		},
		{
			name:    "missing db path",
			config:  with(func(c *Config) { c.Storage.DBPath = "" }),
			wantErr: true,
			errMsg:  "storage.db_path is required",
		},
		{
			name:    "missing image dir",
			config:  with(func(c *Config) { c.Storage.ImageDir = "" }),
			wantErr: true,
			errMsg:  "storage.image_dir is required",
		},
		{
			name:    "zero upload limit",
			config:  with(func(c *Config) { c.Storage.MaxUploadBytes = 0 }),
			wantErr: true,
			errMsg:  "storage.max_upload_bytes must be positive",
		},
		{
			name:    "bad log format",
			config:  with(func(c *Config) { c.Logging.Format = "xml" }),
			wantErr: true,
			errMsg:  "logging.format must be 'text' or 'json'",
		},
		{
			name:    "bad log level",
			config:  with(func(c *Config) { c.Logging.Level = "loud" }),
			wantErr: true,
			errMsg:  "unknown logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Port = 8123
			cfg.Storage.DBPath = "/var/lib/tradejournal/journal.db"
			cfg.Web.StaticDir = "./web"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n  read_timeout: 2s\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, Default().Storage, cfg.Storage)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [1, 2"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "absent.yaml"), filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\nlogging:\n  level: debug\n"), 0644))

	t.Setenv("TRADEJOURNAL_SERVER_PORT", "7001")
	t.Setenv("TRADEJOURNAL_STORAGE_IMAGE_DIR", "/tmp/shots")

	cfg, err := Load(path, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "/tmp/shots", cfg.Storage.ImageDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRADEJOURNAL_LOGGING_FORMAT=json\nTRADEJOURNAL_SERVER_SHUTDOWN_TIMEOUT=3s\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("TRADEJOURNAL_LOGGING_FORMAT")
		os.Unsetenv("TRADEJOURNAL_SERVER_SHUTDOWN_TIMEOUT")
	})

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("TRADEJOURNAL_SERVER_PORT", "not-a-port")

	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}
