// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBPath     string

	// Upstream engine (any OpenAI-compatible local server).
	UpstreamBaseURL string
	UpstreamAPIKey  string
	DefaultModel    string

	// Sliding-window budget: maximum non-system messages sent to the
	// engine per completion.
	WindowMaxMessages int

	Environment string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "llmgate.db"),
		UpstreamBaseURL:   getEnv("UPSTREAM_BASE_URL", "http://localhost:11434/v1"),
		UpstreamAPIKey:    getEnv("UPSTREAM_API_KEY", ""),
		DefaultModel:      getEnv("DEFAULT_MODEL", ""),
		WindowMaxMessages: getEnvAsInt("WINDOW_MAX_MESSAGES", 20),
		Environment:       env,
	}

	if cfg.WindowMaxMessages < 1 {
		log.Printf("Warning: WINDOW_MAX_MESSAGES must be at least 1; using 1")
		cfg.WindowMaxMessages = 1
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
