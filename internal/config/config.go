package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"stayhaven/internal/storage"
)

type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	Storage storage.Config

	// Sweep intervals. The retention sweep is weekly at a fixed hour and is
	// configured in cmd/sweeper.
	ExpiryInterval time.Duration
	MediaInterval  time.Duration
}

// Load reads configuration from the environment. A .env file is honored when
// present, as in local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "stayhaven.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         getDuration("JWT_TTL", 24*time.Hour),
		ExpiryInterval: getDuration("BOOKING_EXPIRY_INTERVAL", 5*time.Minute),
		MediaInterval:  getDuration("MEDIA_SWEEP_INTERVAL", 24*time.Hour),
		Storage: storage.Config{
			Type:      getEnv("STORAGE_TYPE", "local"),
			BaseDir:   getEnv("STORAGE_BASE_DIR", "./uploads"),
			BaseURL:   os.Getenv("STORAGE_BASE_URL"),
			Bucket:    os.Getenv("STORAGE_BUCKET"),
			Region:    os.Getenv("STORAGE_REGION"),
			Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
