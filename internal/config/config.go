package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg := Config{
		DBName:   getEnv("DB_NAME"),
		Port:     getEnvDefault("PORT", "8080"),
		LogLevel: getEnvDefault("LOG_LEVEL", "info"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Slack: SlackConfig{
			Token:     os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		ProjectID: os.Getenv("GCP_PROJECT"),
		Rating: RatingConfig{
			InitialRating: getFloat("RATING_INITIAL", 1200),
			BaseK:         getFloat("RATING_K", 32),
			PointDiff:     getBool("RATING_POINT_DIFF", false),
			MarginScale:   getFloat("RATING_MARGIN_SCALE", 10),
		},
		Queue: QueueConfig{
			PollInterval: getDuration("RECALC_POLL_INTERVAL", 5*time.Second),
			JobTimeout:   getDuration("RECALC_JOB_TIMEOUT", 0),
			RecentLimit:  getInt("RECALC_RECENT_LIMIT", 10),
		},
	}
	return cfg
}

// getEnv returns a required env var. It will fail if the env var is not set.
func getEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	log.Fatalf("Error: Required environment variable %s is not set.", key)
	return "" // This line is never reached
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Error: Environment variable %s must be a number, got %q", key, raw)
	}
	return v
}

func getInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error: Environment variable %s must be an integer, got %q", key, raw)
	}
	return v
}

func getBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Fatalf("Error: Environment variable %s must be true or false, got %q", key, raw)
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Error: Environment variable %s must be a duration (e.g. 30s), got %q", key, raw)
	}
	return v
}
