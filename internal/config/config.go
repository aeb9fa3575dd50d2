package config

import (
	"os"
	"strconv"
	"time"
)

type MySQLConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort int

	// Storage selects the order repository: "mysql" or "memory".
	Storage string
	MySQL   MySQLConfig

	RedisAddr        string
	RabbitMQURL      string
	RabbitMQExchange string

	ProductServiceURL string

	SessionTTL     time.Duration
	SweepBatchSize int
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("PORT", 8080),
		Storage:  getEnv("STORAGE", "mysql"),
		MySQL: MySQLConfig{
			User:     getEnv("MYSQL_USER", "root"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "storefront"),
		},
		RedisAddr:         getEnv("REDIS_HOST", "localhost") + ":6379",
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:  getEnv("RABBITMQ_EXCHANGE", "storefront.exchange"),
		ProductServiceURL: getEnv("PRODUCT_SERVICE_URL", "http://localhost:8081"),
		SessionTTL:        getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		SweepBatchSize:    getEnvInt("SWEEP_BATCH_SIZE", 500),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
