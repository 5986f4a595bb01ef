package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// ConfigFloat reads a numeric setting, falling back when unset or malformed.
func ConfigFloat(key string, fallback float64) float64 {
	raw := Config(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid value %q for %s, using default %v", raw, key, fallback)
		return fallback
	}
	return value
}

func ConfigInt(key string, fallback int) int {
	raw := Config(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid value %q for %s, using default %v", raw, key, fallback)
		return fallback
	}
	return value
}
