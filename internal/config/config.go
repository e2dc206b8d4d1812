package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration, loaded from the environment
// with an optional .env file on top.
type Config struct {
	Port        string
	Environment string

	DatabaseURL string
	RedisURL    string

	// Event publishing: "gochannel" (in-process, default) or "kafka".
	EventBroker  string
	KafkaBrokers []string

	// Server-side rendering assets.
	TemplateGlob string
	StaticDir    string

	LogLevel slog.Level
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		EventBroker:  getEnv("EVENT_BROKER", "gochannel"),
		TemplateGlob: getEnv("TEMPLATE_GLOB", "web/templates/*.html"),
		StaticDir:    getEnv("STATIC_DIR", "web/static"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.EventBroker == "kafka" && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required when EVENT_BROKER=kafka")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
