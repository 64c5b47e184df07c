// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string // VIBETRIP_DATABASE_URL (required)
	HTTPAddr    string // VIBETRIP_HTTP_ADDR (default ":8080")
	NATSURL     string // VIBETRIP_NATS_URL (optional, empty = no events)
	JWTSecret   string // VIBETRIP_JWT_SECRET (required)

	// Media settings
	MediaS3Bucket   string // VIBETRIP_MEDIA_S3_BUCKET (enables uploads when set)
	MediaS3Endpoint string // VIBETRIP_MEDIA_S3_ENDPOINT (custom endpoint for MinIO)
	MediaS3Region   string // VIBETRIP_MEDIA_S3_REGION (default "us-east-1")
	MediaBaseURL    string // VIBETRIP_MEDIA_BASE_URL (public URL prefix for uploads)

	// Cleanup settings
	CleanupInterval time.Duration // VIBETRIP_CLEANUP_INTERVAL (default 1h; 0 = disabled)
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	c := &Config{
		DatabaseURL:     os.Getenv("VIBETRIP_DATABASE_URL"),
		HTTPAddr:        envOrDefault("VIBETRIP_HTTP_ADDR", ":8080"),
		NATSURL:         os.Getenv("VIBETRIP_NATS_URL"),
		JWTSecret:       os.Getenv("VIBETRIP_JWT_SECRET"),
		MediaS3Bucket:   os.Getenv("VIBETRIP_MEDIA_S3_BUCKET"),
		MediaS3Endpoint: os.Getenv("VIBETRIP_MEDIA_S3_ENDPOINT"),
		MediaS3Region:   envOrDefault("VIBETRIP_MEDIA_S3_REGION", "us-east-1"),
		MediaBaseURL:    os.Getenv("VIBETRIP_MEDIA_BASE_URL"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("VIBETRIP_DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("VIBETRIP_JWT_SECRET is required")
	}

	intervalStr := envOrDefault("VIBETRIP_CLEANUP_INTERVAL", "1h")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("VIBETRIP_CLEANUP_INTERVAL: %w", err)
		}
		c.CleanupInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
