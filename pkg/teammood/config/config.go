package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration, read from the environment.
type Config struct {
	DBPath       string
	Port         string
	BaseURL      string
	VotingWindow time.Duration
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() Config {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	return Config{
		DBPath:       getEnv("TEAMMOOD_DB_PATH", "teammood.db"),
		Port:         getEnv("PORT", "8080"),
		BaseURL:      getEnv("TEAMMOOD_BASE_URL", "http://localhost:8080"),
		VotingWindow: getDurationEnv("TEAMMOOD_VOTING_WINDOW", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
