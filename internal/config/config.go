package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

// Storage drivers for progress persistence.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`              // current application environment (local, dev, prod etc)
	TelegramAPIToken string  `mapstructure:"-"`                // Telegram API token loaded from environment
	TopicsJSONPath   string  `mapstructure:"topics_json_path"` // path to JSON file with the grammar topic catalog
	Storage          Storage `mapstructure:"storage"`          // progress persistence section
}

// Storage contains progress persistence configuration parameters.
type Storage struct {
	Driver          string        `mapstructure:"driver"` // "postgres" or "redis"
	DatabaseURL     string        `mapstructure:"-"`      // PostgreSQL connection string loaded from environment
	RedisURL        string        `mapstructure:"-"`      // Redis connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("topics_json_path", "assets/data/topics.json")
	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.max_connections", 10)
	v.SetDefault("storage.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Storage.DatabaseURL = v.GetString("database_url")
	cfg.Storage.RedisURL = v.GetString("redis_url")

	switch cfg.Storage.Driver {
	case DriverPostgres:
		if cfg.Storage.DatabaseURL == "" {
			return nil, ErrMissingEnvironmentVariables
		}
	case DriverRedis:
		if cfg.Storage.RedisURL == "" {
			return nil, ErrMissingEnvironmentVariables
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorageDriver, cfg.Storage.Driver)
	}

	return &cfg, nil
}
