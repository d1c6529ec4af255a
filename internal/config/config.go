// Package config centralises configuration parsing for the signup service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for both binaries.
type Config struct {
	HTTPAddress       string
	MetricsAddress    string
	PostgresURL       string // empty means the in-memory registry is used
	KafkaBrokers      []string
	EventTopic        string
	EventQueueSize    int
	EventWriteTimeout time.Duration
	ConsumerGroupID   string
	LogLevel          string
	LogFormat         string
}

// Load reads environment variables into Config, applying defaults for local
// dev. A .env file in the working directory is honoured when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddress:       getEnv("HTTP_ADDRESS", ":8080"),
		MetricsAddress:    getEnv("METRICS_ADDRESS", ":9090"),
		PostgresURL:       getEnv("POSTGRES_URL", ""),
		EventTopic:        getEnv("EVENT_TOPIC", "roster_events"),
		EventQueueSize:    getIntEnv("EVENT_QUEUE_SIZE", 256),
		EventWriteTimeout: getDurationEnv("EVENT_WRITE_TIMEOUT", 5*time.Second),
		ConsumerGroupID:   getEnv("CONSUMER_GROUP_ID", "roster-auditor"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}

	cfg.KafkaBrokers = splitAndTrim(getEnv("KAFKA_BROKERS", ""))
	return cfg
}

// EventsEnabled reports whether Kafka publishing is configured.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
