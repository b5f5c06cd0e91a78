package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the task service.
type Config struct {
	Addr           string
	DatabaseURL    string
	JWTSecret      string
	LogFormat      string
	DigestInterval time.Duration
	TelegramToken  string
	TelegramChatID int64
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Addr:           strings.TrimSpace(os.Getenv("ADDR")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		LogFormat:      strings.TrimSpace(os.Getenv("LOG_FORMAT")),
		DigestInterval: parseInterval(strings.TrimSpace(os.Getenv("DIGEST_INTERVAL_HOURS"))),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be numeric: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskpad.db"
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
