package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"eatfit/internal/session"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	APIBaseURL  string
	SessionFile string
	HTTPTimeout time.Duration
	Debug       bool
}

// Load builds Config from the environment, reading a .env file first when
// one exists.
func Load() *Config {
	// a missing .env is the normal case outside development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	return &Config{
		APIBaseURL:  getEnv("EATFIT_API_URL", "http://localhost:8000/api/v1"),
		SessionFile: sessionFile(),
		HTTPTimeout: getEnvDuration("EATFIT_HTTP_TIMEOUT", 30*time.Second),
		Debug:       getEnvBool("EATFIT_DEBUG", false),
	}
}

func sessionFile() string {
	if v := os.Getenv("EATFIT_SESSION_FILE"); v != "" {
		return v
	}
	path, err := session.DefaultPath()
	if err != nil {
		log.Printf("session path: %v; falling back to working directory", err)
		return ".eatfit-session.json"
	}
	return path
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
