package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all runtime settings for the storefront API.
type Config struct {
	AppPort     string
	BodyLimitMB int
	JWTSecret   string
	Database    DatabaseConfig
	Media       MediaConfig
	RabbitMQ    RabbitMQConfig
	Log         LogConfig
}

// DatabaseConfig selects the GORM dialector and its DSN.
type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// MediaConfig points at the blob bucket holding uploaded images and the
// public endpoint that serves transformed variants of them.
type MediaConfig struct {
	BucketURL   string
	URLEndpoint string
}

// RabbitMQConfig is optional; an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables, falling back to
// defaults suitable for local development.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("BODY_LIMIT_MB", 16)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:storefront.db?cache=shared")
	v.SetDefault("MEDIA_BUCKET_URL", "file:///tmp/storefront-media?create_dir=true")
	v.SetDefault("MEDIA_URL_ENDPOINT", "http://localhost:8080/media")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "storefront")
	v.SetDefault("RABBITMQ_QUEUE", "storefront_events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		BodyLimitMB: v.GetInt("BODY_LIMIT_MB"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Media: MediaConfig{
			BucketURL:   v.GetString("MEDIA_BUCKET_URL"),
			URLEndpoint: v.GetString("MEDIA_URL_ENDPOINT"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_DSN must be set")
	}
	if c.Media.BucketURL == "" {
		return errors.New("MEDIA_BUCKET_URL must be set")
	}
	if c.BodyLimitMB <= 0 {
		return errors.Errorf("BODY_LIMIT_MB must be positive, got %d", c.BodyLimitMB)
	}
	return nil
}
