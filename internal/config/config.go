package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string
	XPPerCorrect   int
	SeedDemo       bool
}

// DefaultXPPerCorrect is awarded per correctly answered problem unless
// XP_PER_CORRECT overrides it.
const DefaultXPPerCorrect = 10

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	// A missing .env file is the normal case in production
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./mathquest.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		XPPerCorrect:   getEnvPositiveInt("XP_PER_CORRECT", DefaultXPPerCorrect),
		SeedDemo:       getEnvBool("SEED_DEMO", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvPositiveInt reads a positive integer environment variable, falling
// back to the default when unset, unparseable, or non-positive
func getEnvPositiveInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvBool reads a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
