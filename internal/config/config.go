package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Version is set at build time via ldflags.
var Version = "0.0.1-dev"

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	TMDB          TMDBConfig          `mapstructure:"tmdb"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Session       SessionConfig       `mapstructure:"session"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig holds the durable store configuration.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// TMDBConfig holds the TMDB API client configuration.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Timeout      int    `mapstructure:"timeout"` // seconds
}

// CatalogConfig holds catalog service tuning.
type CatalogConfig struct {
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	MaxPages     int           `mapstructure:"max_pages"`
	BatchWorkers int           `mapstructure:"batch_workers"`
}

// NotificationsConfig holds notification center tuning. The history cap
// and toast timings are presentation defaults, overridable per deployment.
type NotificationsConfig struct {
	HistoryLimit  int           `mapstructure:"history_limit"`
	ToastDuration time.Duration `mapstructure:"toast_duration"`
	EnterDelay    time.Duration `mapstructure:"enter_delay"`
	ExitDelay     time.Duration `mapstructure:"exit_delay"`
}

// SessionConfig holds session token configuration.
type SessionConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8480,
		},
		Storage: StorageConfig{
			Path: "./data/cinedex.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TMDB: TMDBConfig{
			APIKey:       EmbeddedTMDBKey,
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/original",
			Timeout:      15,
		},
		Catalog: CatalogConfig{
			CacheTTL:     15 * time.Minute,
			MaxPages:     100,
			BatchWorkers: 4,
		},
		Notifications: NotificationsConfig{
			HistoryLimit:  50,
			ToastDuration: 5 * time.Second,
			EnterDelay:    10 * time.Millisecond,
			ExitDelay:     500 * time.Millisecond,
		},
		Session: SessionConfig{
			JWTSecret: "", // generated and persisted if empty
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.cinedex")
	}

	v.SetEnvPrefix("CINEDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)

	v.SetDefault("storage.path", def.Storage.Path)

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.path", "")

	v.SetDefault("tmdb.api_key", def.TMDB.APIKey)
	v.SetDefault("tmdb.base_url", def.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", def.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.timeout", def.TMDB.Timeout)

	v.SetDefault("catalog.cache_ttl", def.Catalog.CacheTTL)
	v.SetDefault("catalog.max_pages", def.Catalog.MaxPages)
	v.SetDefault("catalog.batch_workers", def.Catalog.BatchWorkers)

	v.SetDefault("notifications.history_limit", def.Notifications.HistoryLimit)
	v.SetDefault("notifications.toast_duration", def.Notifications.ToastDuration)
	v.SetDefault("notifications.enter_delay", def.Notifications.EnterDelay)
	v.SetDefault("notifications.exit_delay", def.Notifications.ExitDelay)

	v.SetDefault("session.jwt_secret", "")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
