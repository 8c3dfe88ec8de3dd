package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	JWTSecret       string
	JWTIssuer       string
	JWTTTLMinutes   int
	RefreshTTLHours int
	UploadDir       string
	MaxResumeMB     int
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:       getEnv("JWT_ISSUER", "openboard"),
		JWTTTLMinutes:   getEnvInt("JWT_TTL_MINUTES", 60),
		RefreshTTLHours: getEnvInt("REFRESH_TTL_HOURS", 720),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		MaxResumeMB:     getEnvInt("MAX_RESUME_MB", 10),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
