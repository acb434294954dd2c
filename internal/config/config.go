package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// DefaultCommissionRate is applied when neither the closer, their role nor the
// tenant carries a rate.
var DefaultCommissionRate = decimal.RequireFromString("0.10")

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Auth       AuthConfig
	Services   ServicesConfig
	Kafka      KafkaConfig
	Redis      RedisConfig
	Server     ServerConfig
	Commission CommissionConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret string
}

// ServicesConfig holds webhook secrets and external service configuration
type ServicesConfig struct {
	PaymentWebhookSecret string // optional shared secret for the generic payment webhook
	StripeWebhookSecret  string // optional; the Stripe route is disabled when empty
	WebAppURI            string
}

// KafkaConfig holds Kafka/event streaming configuration.
// Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// BrokerList splits the comma separated broker string.
func (k KafkaConfig) BrokerList() []string {
	if k.Brokers == "" {
		return nil
	}
	parts := strings.Split(k.Brokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

// RedisConfig holds Redis connection settings used for webhook rate limiting
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port             int
	WebhookRateLimit int // requests per minute per client, 0 disables
}

// CommissionConfig holds commission engine defaults
type CommissionConfig struct {
	FallbackRate decimal.Decimal
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	var err error
	if cfg.Database, err = loadDatabase(); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	cfg.Services.PaymentWebhookSecret = os.Getenv("PAYMENT_WEBHOOK_SECRET")
	cfg.Services.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Services.WebAppURI = getEnvWithDefault("WEBAPP_URI", "http://localhost:3000")

	cfg.Kafka.Brokers = os.Getenv("KAFKA_BROKERS")
	cfg.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", "revenue-events")

	cfg.Redis.Enabled = getEnvWithDefault("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Host = getEnvWithDefault("REDIS_HOST", "localhost")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.Port, err = strconv.Atoi(getEnvWithDefault("REDIS_PORT", "6379")); err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_PORT: %w", err)
	}
	if cfg.Redis.DB, err = strconv.Atoi(getEnvWithDefault("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_DB: %w", err)
	}

	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}
	cfg.Server.WebhookRateLimit, err = strconv.Atoi(getEnvWithDefault("WEBHOOK_RATE_LIMIT", "600"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse WEBHOOK_RATE_LIMIT: %w", err)
	}

	cfg.Commission.FallbackRate, err = parseRate(getEnvWithDefault("COMMISSION_FALLBACK_RATE", DefaultCommissionRate.String()))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that do not serve HTTP
func LoadDatabase() (DatabaseConfig, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return DatabaseConfig{}, fmt.Errorf("failed to load env.local: %w", err)
		}
	}
	return loadDatabase()
}

func loadDatabase() (DatabaseConfig, error) {
	var db DatabaseConfig
	var err error
	if db.Host, err = requireEnv("DB_HOST"); err != nil {
		return db, err
	}
	if db.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return db, err
	}
	if db.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return db, err
	}
	if db.Name, err = requireEnv("DB_NAME"); err != nil {
		return db, err
	}
	return db, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

func parseRate(value string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse COMMISSION_FALLBACK_RATE: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Decimal{}, fmt.Errorf("COMMISSION_FALLBACK_RATE must be between 0 and 1, got %s", value)
	}
	return rate, nil
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
