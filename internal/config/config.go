package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// DefaultJWTSecret is the placeholder signing secret used when JWT_SECRET is
// not configured. It is public, so tokens signed with it can be forged.
const DefaultJWTSecret = "change-me"

// Config holds every runtime setting of the storefront.
type Config struct {
	AppPort string

	StorageDriver string
	SQLitePath    string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	RabbitMQURL string // empty disables order events

	JWTSecret string
	TokenTTL  time.Duration

	InitLatency     time.Duration
	AuthLatency     time.Duration
	CheckoutLatency time.Duration
	ChatReplyDelay  time.Duration
	ShutdownTimeout time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORAGE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "storefront.db")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=storefront port=5432 sslmode=disable")
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "storefront:")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("INIT_LATENCY", "500ms")
	v.SetDefault("AUTH_LATENCY", "800ms")
	v.SetDefault("CHECKOUT_LATENCY", "2s")
	v.SetDefault("CHAT_REPLY_DELAY", "1500ms")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
}

// Load reads configuration from the environment and, if present, a
// storefront.yaml file in the working directory or /etc/storefront.
func Load() (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/storefront")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already prepared viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:         v.GetString("APP_PORT"),
		StorageDriver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		SQLitePath:      v.GetString("SQLITE_PATH"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		RedisPrefix:     v.GetString("REDIS_PREFIX"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		InitLatency:     v.GetDuration("INIT_LATENCY"),
		AuthLatency:     v.GetDuration("AUTH_LATENCY"),
		CheckoutLatency: v.GetDuration("CHECKOUT_LATENCY"),
		ChatReplyDelay:  v.GetDuration("CHAT_REPLY_DELAY"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverRedis:
	default:
		return Config{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.JWTSecret == DefaultJWTSecret {
		log.Printf("WARNING: JWT_SECRET is not set, using the built-in default %q. Set JWT_SECRET before exposing the server.", DefaultJWTSecret)
	}
	return cfg, nil
}
