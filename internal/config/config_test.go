package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, loader, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, "https://api.tvmaze.com", cfg.Catalog.BaseURL)
	assert.Equal(t, 0, cfg.Catalog.Timeout)
	assert.Equal(t, "*/5 * * * *", cfg.Health.ProbeCron)
	assert.Equal(t, 2000, cfg.Health.SlowAfterMS)
	assert.Equal(t, path, loader.ConfigFile())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
catalog:
  base_url: http://localhost:1234
  timeout: 5
logging:
  level: debug
`)
	t.Setenv("TVFINDER_SERVER_PORT", "9100")

	cfg, _, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env wins over file")
	assert.Equal(t, "http://localhost:1234", cfg.Catalog.BaseURL)
	assert.Equal(t, 5, cfg.Catalog.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9100", cfg.Server.Address())
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Catalog.BaseURL = "" }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"negative timeout", func(c *Config) { c.Catalog.Timeout = -1 }},
		{"negative slow threshold", func(c *Config) { c.Health.SlowAfterMS = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestLoader_WatchReloads(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")

	_, loader, err := Load(path)
	require.NoError(t, err)

	changed := make(chan *Config, 16)
	loader.Watch(func(cfg *Config, err error) {
		if err != nil {
			return
		}
		select {
		case changed <- cfg:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Logging.Level == "warn" {
				return
			}
		case <-timeout:
			t.Fatal("config change was not observed")
		}
	}
}
