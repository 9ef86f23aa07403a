package config

import (
	"os"
	"strconv"
	"time"
)

// Settings regroups the environment-driven knobs that the services read at
// startup. DB_URL, JWT_SECRET and the Cloudinary variables are read directly
// by their packages; everything tunable lives here.
type Settings struct {
	// Number of distinct reporters required before a pending media item is
	// flagged for review. Defaults to 1: any report flags.
	ReportFlagThreshold int

	// Window within which createOrder deduplicates on (user, plan, idempotency key).
	OrderDedupWindow time.Duration

	// Payment gateway credentials and endpoint.
	GatewayURL    string
	GatewayKeyID  string
	GatewaySecret string

	// Automated screening API. Empty URL disables screening (uploads stay pending).
	ScreeningAPIURL string
	ScreeningAPIKey string
}

func Load() Settings {
	return Settings{
		ReportFlagThreshold: envInt("REPORT_FLAG_THRESHOLD", 1),
		OrderDedupWindow:    envDuration("ORDER_DEDUP_WINDOW", 24*time.Hour),
		GatewayURL:          os.Getenv("PAYMENT_GATEWAY_URL"),
		GatewayKeyID:        os.Getenv("PAYMENT_GATEWAY_KEY_ID"),
		GatewaySecret:       os.Getenv("PAYMENT_GATEWAY_SECRET"),
		ScreeningAPIURL:     os.Getenv("SCREENING_API_URL"),
		ScreeningAPIKey:     os.Getenv("SCREENING_API_KEY"),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
