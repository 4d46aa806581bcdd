package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at start-up from .env and the environment
type Config struct {
	DatabaseURL            string
	DatabaseName           string
	JWTSecret              string
	TokenTTL               time.Duration
	Port                   string
	PublicBaseURL          string
	UploadDir              string
	PosterMaxWidth         int
	MaxUploadBytes         int64
	PostmarkToken          string
	EmailSender            string
	LogLevel               string
	RequireAdminModeration bool
}

// LoadConfig reads .env if present, then the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside development
	envErr := godotenv.Load()

	cfg := &Config{
		DatabaseURL:   os.Getenv("MONGODB_URI"),
		DatabaseName:  getEnv("MONGODB_DATABASE", "campus_events"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Port:          getEnv("PORT", "8000"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port), "/")

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.PosterMaxWidth, err = strconv.Atoi(getEnv("POSTER_MAX_WIDTH", "1280")); err != nil || cfg.PosterMaxWidth < 0 {
		return nil, fmt.Errorf("POSTER_MAX_WIDTH must be a non-negative integer")
	}
	maxMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "10"))
	if err != nil || maxMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer")
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20
	if cfg.RequireAdminModeration, err = strconv.ParseBool(getEnv("REQUIRE_ADMIN_MODERATION", "false")); err != nil {
		return nil, fmt.Errorf("REQUIRE_ADMIN_MODERATION: %w", err)
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		if envErr != nil {
			return nil, fmt.Errorf("missing %s (no .env file: %w)", strings.Join(missing, ", "), envErr)
		}
		return nil, errors.New("missing " + strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
