package initializers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port            string
	Env             string
	LogLevel        string
	DBDriver        string
	DatabaseURL     string
	MongoURI        string
	MongoDatabase   string
	JWTSecret       string
	JWTTTL          time.Duration
	DeliveryCharge  decimal.Decimal
	AllowedOrigins  []string
	OrderWebhookURL string
	S3Bucket        string
	SMTPAddress     string
	SMTPHost        string
	FromEmail       string
	FromPassword    string
	AdminEmail      string
	AdminPassword   string
	AdminName       string
	ShutdownTimeout time.Duration
}

// LoadEnv reads .env when present. A missing file is not an error; the
// process environment is used as is. Any other error is returned so the
// caller can log it once a logger exists.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", "memory")),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "storefront"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		OrderWebhookURL: getEnv("ORDER_WEBHOOK_URL", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		SMTPAddress:     getEnv("SMTP_ADDRESS", ""),
		SMTPHost:        getEnv("FROM_EMAIL_SMTP", ""),
		FromEmail:       getEnv("FROM_EMAIL", ""),
		FromPassword:    getEnv("FROM_EMAIL_PASSWORD", ""),
		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		AdminName:       getEnv("ADMIN_NAME", "Admin"),
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "720h")); err != nil {
		return Config{}, fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.DeliveryCharge, err = decimal.NewFromString(getEnv("DELIVERY_CHARGE", "40")); err != nil {
		return Config{}, fmt.Errorf("DELIVERY_CHARGE: %w", err)
	}
	if cfg.DeliveryCharge.IsNegative() {
		return Config{}, fmt.Errorf("DELIVERY_CHARGE must not be negative")
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" {
			return Config{}, fmt.Errorf("JWT_SECRET is required outside dev")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}

	switch cfg.DBDriver {
	case "memory", "mongo":
	case "mysql", "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", cfg.DBDriver)
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}
