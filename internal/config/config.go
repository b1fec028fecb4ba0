package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Health  HealthConfig  `mapstructure:"health" yaml:"health"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// CatalogConfig holds settings for the TVMaze catalog client.
type CatalogConfig struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	Timeout   int    `mapstructure:"timeout" yaml:"timeout"` // seconds, 0 = transport default
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// HealthConfig controls the background catalog reachability probe.
type HealthConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ProbeCron   string `mapstructure:"probe_cron" yaml:"probe_cron"`
	RunOnStart  bool   `mapstructure:"run_on_start" yaml:"run_on_start"`
	SlowAfterMS int    `mapstructure:"slow_after_ms" yaml:"slow_after_ms"` // successful probes slower than this warn, 0 disables
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Catalog: CatalogConfig{
			BaseURL:   "https://api.tvmaze.com",
			UserAgent: "tvfinder/" + Version,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Health: HealthConfig{
			Enabled:     true,
			ProbeCron:   "*/5 * * * *",
			RunOnStart:  true,
			SlowAfterMS: 2000,
		},
	}
}

// Loader reads configuration and keeps the underlying viper instance so the
// caller can watch the file for changes.
type Loader struct {
	v *viper.Viper
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(configPath string) (*Config, *Loader, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.tvfinder")
	}

	v.SetEnvPrefix("TVFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, &Loader{v: v}, nil
}

// ConfigFile returns the path of the file that was read, or "" when only
// defaults and environment were used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch invokes onChange with the reloaded config each time the config file
// is written. It is a no-op when no file was read.
func (l *Loader) Watch(onChange func(*Config, error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg := &Config{}
		if err := l.v.Unmarshal(cfg); err != nil {
			onChange(nil, fmt.Errorf("failed to unmarshal config: %w", err))
			return
		}
		onChange(cfg, cfg.Validate())
	})
	l.v.WatchConfig()
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must not be negative")
	}
	if c.Health.SlowAfterMS < 0 {
		return fmt.Errorf("health.slow_after_ms must not be negative")
	}
	return nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("catalog.base_url", d.Catalog.BaseURL)
	v.SetDefault("catalog.timeout", d.Catalog.Timeout)
	v.SetDefault("catalog.user_agent", d.Catalog.UserAgent)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("health.enabled", d.Health.Enabled)
	v.SetDefault("health.probe_cron", d.Health.ProbeCron)
	v.SetDefault("health.run_on_start", d.Health.RunOnStart)
	v.SetDefault("health.slow_after_ms", d.Health.SlowAfterMS)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
