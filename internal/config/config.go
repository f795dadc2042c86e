package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds environment-driven configuration for the storefront client
// and the local dev backend.
type Config struct {
	APIBase     string
	SessionFile string

	PollInitialDelay time.Duration
	PollInterval     time.Duration
	PollMaxAttempts  int

	AlertTTL      time.Duration
	SlideInterval time.Duration

	// dev backend
	Addr        string
	JWTSecret   string
	DatabaseURL string
	StaticDir   string
}

// Load reads configuration from environment variables. Callers load a .env
// file first if they want one.
func Load() Config {
	return Config{
		APIBase:          getenv("STOREFRONT_API_BASE", "http://localhost:8000/api"),
		SessionFile:      getenv("STOREFRONT_SESSION_FILE", defaultSessionFile()),
		PollInitialDelay: durationEnv("STOREFRONT_POLL_INITIAL_DELAY", time.Second),
		PollInterval:     durationEnv("STOREFRONT_POLL_INTERVAL", 2*time.Second),
		PollMaxAttempts:  intEnv("STOREFRONT_POLL_MAX_ATTEMPTS", 30),
		AlertTTL:         durationEnv("STOREFRONT_ALERT_TTL", 5*time.Second),
		SlideInterval:    durationEnv("STOREFRONT_SLIDE_INTERVAL", 5*time.Second),
		Addr:             getenv("PET_SHOP_ADDR", ":8000"),
		JWTSecret:        getenv("JWT_SECRET", "dev-secret"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		StaticDir:        getenv("STOREFRONT_STATIC_DIR", "./static"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront-session.json"
	}
	return filepath.Join(dir, "pet-shop-storefront", "session.json")
}
