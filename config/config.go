package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string
	DatabaseDSN            string
	UserServiceURL         string
	TaskServiceURL         string
	NotificationServiceURL string
	ClientTimeout          time.Duration
}

// Load reads configuration from the environment, taking a local .env
// file into account when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                   envOr("PORT", "8000"),
		DatabaseDSN:            envOr("DATABASE_DSN", "admin:12345678@tcp(127.0.0.1:3306)/reviewdbgo?charset=utf8mb4&parseTime=True&loc=Local"),
		UserServiceURL:         envOr("USER_SERVICE_URL", "http://localhost:8001"),
		TaskServiceURL:         envOr("TASK_SERVICE_URL", "http://localhost:8002"),
		NotificationServiceURL: envOr("NOTIFICATION_SERVICE_URL", "http://localhost:8003"),
		ClientTimeout:          time.Duration(envOrInt("CLIENT_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
