package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Chat     ChatConfig
	Seed     SeedConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host        string
	Port        int
	FrontendURL string
}

// Address returns the host:port the server listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// ConnectionString builds a pgx connection string.
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds token issuing configuration.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
}

// StripeConfig holds payment provider configuration. Empty keys disable
// checkout endpoints at runtime rather than failing startup.
type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	BasicPriceID   string
	PremiumPriceID string
}

// ChatConfig holds the OpenAI-compatible completion endpoint configuration.
type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// SeedConfig controls where the startup catalog seed is loaded from.
// Source is "embedded", "file" or "s3".
type SeedConfig struct {
	Source   string
	FilePath string
	S3Bucket string
	S3Region string
	S3Key    string
}

// Load loads configuration from the environment, honouring a local .env
// file when present.
func Load() (*Config, error) {
	// Missing .env is not an error; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8000),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "heritage"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("SECRET_KEY", ""),
			TokenTTLMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		},
		Stripe: StripeConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			BasicPriceID:   getEnv("STRIPE_BASIC_PRICE_ID", ""),
			PremiumPriceID: getEnv("STRIPE_PREMIUM_PRICE_ID", ""),
		},
		Chat: ChatConfig{
			BaseURL: getEnv("CHAT_BASE_URL", "https://integrate.api.nvidia.com/v1"),
			APIKey:  getEnv("CHAT_API_KEY", ""),
			Model:   getEnv("CHAT_MODEL", "deepseek-ai/deepseek-v3.1"),
		},
		Seed: SeedConfig{
			Source:   getEnv("SEED_SOURCE", "embedded"),
			FilePath: getEnv("SEED_FILE_PATH", ""),
			S3Bucket: getEnv("SEED_S3_BUCKET", ""),
			S3Region: getEnv("SEED_S3_REGION", "us-east-1"),
			S3Key:    getEnv("SEED_S3_KEY", "catalog/seed.json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}

	if c.Auth.TokenTTLMinutes < 1 {
		return fmt.Errorf("token TTL must be at least 1 minute")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Seed.Source {
	case "embedded":
	case "file":
		if c.Seed.FilePath == "" {
			return fmt.Errorf("SEED_FILE_PATH is required when seed source is file")
		}
	case "s3":
		if c.Seed.S3Bucket == "" {
			return fmt.Errorf("SEED_S3_BUCKET is required when seed source is s3")
		}
	default:
		return fmt.Errorf("invalid seed source: %s (must be embedded, file, or s3)", c.Seed.Source)
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
