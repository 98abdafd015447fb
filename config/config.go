package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string

	// EventbriteToken is kept for the legacy API path; the public search API
	// was retired, so the scraping path ignores it.
	EventbriteToken string

	ResultsDir      string
	FetchTimeoutSec int
	TrendsEnabled   bool
	ChromeBin       string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUserAgent:    getEnv("REDDIT_USER_AGENT", "eventpulse/1.0"),

		EventbriteToken: getEnv("EVENTBRITE_TOKEN", ""),

		ResultsDir:      getEnv("RESULTS_DIR", "Results"),
		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 20),
		TrendsEnabled:   getEnvBool("GOOGLE_TRENDS_ENABLED", true),
		ChromeBin:       getEnv("CHROME_BIN", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
