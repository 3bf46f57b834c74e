package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config groups every setting the server reads from the environment.
// Load() populates it once at startup; nothing else reads os.Getenv.
type Config struct {
	App     AppConfig
	MySQL   MySQLConfig
	Redis   RedisConfig
	MinIO   MinIOConfig
	Elastic ElasticConfig
	Stripe  StripeConfig
	SMTP    SMTPConfig
	JWT     JWTConfig
}

type AppConfig struct {
	Env      string // development, production
	Port     string
	BaseURL  string // public URL, used for Stripe success/cancel redirects
	FrontURL string // storefront origin for CORS and checkout redirects
}

type MySQLConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string

	MaxOpenConns int
	MaxIdleConns int
}

// DSN builds the go-sql-driver DSN used by GORM.
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type ElasticConfig struct {
	URL      string
	User     string
	Password string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type JWTConfig struct {
	Secret string
}

// Load reads .env when present and builds the Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		zap.S().Info("no .env file found, using process environment")
	}

	cfg := &Config{
		App: AppConfig{
			Env:      envOr("APP_ENV", "development"),
			Port:     envOr("PORT", "8080"),
			BaseURL:  envOr("BASE_URL", "http://localhost:8080"),
			FrontURL: envOr("FRONT_URL", "http://localhost:3000"),
		},
		MySQL: MySQLConfig{
			Host:         envOr("MYSQL_HOST", "127.0.0.1"),
			Port:         envOr("MYSQL_PORT", "3306"),
			User:         envOr("MYSQL_USER", "root"),
			Password:     os.Getenv("MYSQL_PASSWORD"),
			Database:     envOr("MYSQL_DATABASE", "ec_site"),
			MaxOpenConns: envIntOr("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envIntOr("MYSQL_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     envOr("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envIntOr("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    envOr("MINIO_BUCKET", "ec-images"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envIntOr("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("SMTP_FROM", "no-reply@example.jp"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
	}

	if cfg.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	// Without the webhook secret the server would accept unsigned events
	// that materialize orders and move stock. Only local setups may skip it.
	if cfg.App.Env == "production" && cfg.Stripe.WebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required in production")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
