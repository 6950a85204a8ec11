package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings for the archive service.
type Config struct {
	Port         string
	MongoURI     string
	DatabaseName string

	JWTSecret   string
	TokenExpiry time.Duration

	B2KeyID      string
	B2AppKey     string
	B2BucketName string

	AllowedOrigin string
}

// LoadConfig reads the .env file (if present) and assembles the Config.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:  getEnv("DATABASE_NAME", "docvault"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenExpiry:   parseDuration(getEnv("TOKEN_EXPIRY", "24h")),
		B2KeyID:       getEnv("B2_APPLICATION_KEY_ID", ""),
		B2AppKey:      getEnv("B2_APPLICATION_KEY", ""),
		B2BucketName:  getEnv("B2_BUCKET_NAME", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Failed to parse duration %q: %v", s, err)
	}
	return d
}
