package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile string // Path to SQLite database file (default: ./crewdesk.db)

	SessionSecret string        // Required: HMAC secret for session cookies
	SessionTTL    time.Duration // Session lifetime (default: 24h)
	SecureCookies bool          // Mark session cookies Secure (default: true outside dev)

	StripeSecretKey string // Optional: billing is disabled when empty
	PriceStandard   string // Stripe price ID for the standard plan
	PricePro        string // Stripe price ID for the pro plan
	CheckoutSuccess string // Redirect after successful checkout
	CheckoutCancel  string // Redirect after abandoned checkout
	TrialDays       int    // Trial length for new organizations (default: 14)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-invite sweep interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		DatabaseFile: getEnvOrDefault("CREWDESK_DATABASE_FILE", "crewdesk.db"),

		SessionSecret: os.Getenv("CREWDESK_SESSION_SECRET"),
		SessionTTL:    getEnvDurationOrDefault("CREWDESK_SESSION_TTL", 24*time.Hour),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		PriceStandard:   os.Getenv("STRIPE_PRICE_STANDARD"),
		PricePro:        os.Getenv("STRIPE_PRICE_PRO"),
		CheckoutSuccess: getEnvOrDefault("CREWDESK_CHECKOUT_SUCCESS_URL", "http://localhost:8080/billing/done"),
		CheckoutCancel:  getEnvOrDefault("CREWDESK_CHECKOUT_CANCEL_URL", "http://localhost:8080/billing"),
		TrialDays:       getEnvIntOrDefault("CREWDESK_TRIAL_DAYS", 14),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}

	cfg.SecureCookies = cfg.Env != "dev"

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}

	return defaultValue
}
