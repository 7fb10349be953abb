package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort         int
	DatabasePath       string
	UploadPath         string // Base path for uploaded article images
	ContentProviderURL string // External article text generation service
	SweepSchedule      string // Cron expression for the orphaned-upload sweeper
	Locale             string // Locale for user-facing notification strings
	CORSOrigin         string
}

// Load loads configuration from the environment (and an optional .env file)
// or sets defaults.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./scriberly.db"),
		UploadPath:         getEnv("UPLOAD_PATH", "./uploads/articles"),
		ContentProviderURL: getEnv("CONTENT_PROVIDER_URL", "http://localhost:9090"),
		SweepSchedule:      getEnv("SWEEP_SCHEDULE", "@hourly"),
		Locale:             getEnv("LOCALE", "en"),
		CORSOrigin:         getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
