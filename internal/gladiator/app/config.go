package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	Port                int           // HTTP server port (default: 8080)
	ReadTimeout         time.Duration // default: 15s
	WriteTimeout        time.Duration // default: 30s
	IdleTimeout         time.Duration // default: 120s
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	TrustProxyHeaders   bool          // Honour X-Forwarded-For for rate limiting (default: false)
	SecureCookies       bool          // Mark the session cookie Secure (default: true outside dev)

	DatabaseFile   string        // Path to SQLite database file (default: ./gladiator.db)
	PepperFile     string        // Path to the password pepper, created on first start (default: ./pepper)
	SigningKeyFile string        // Path to the Ed25519 session key, created on first start (default: ./session.key)
	Issuer         string        // Session token issuer (default: gladiatorrx)
	SessionTTL     time.Duration // default: 12h

	AppBaseURL  string // Public URL of the web app, used in email links
	MailFrom    string // From address for transactional email
	ProductName string // Product name shown in email and authenticator apps
	SMTPHost    string // Optional: when empty, email is logged instead of sent
	SMTPPort    int    // default: 587
	SMTPUser    string
	SMTPPass    string

	StripeSecretKey     string // Optional: enables checkout
	StripeWebhookSecret string // Optional: enables the webhook endpoint
	StripePriceID       string // Subscription price used for checkout

	BreachAPIURL        string        // default: https://haveibeenpwned.com/api/v3
	BreachAPIKey        string        // Required outside dev
	BreachAPITimeout    time.Duration // default: 10s
	BreachParallelism   int           // default: 4
	RequireSubscription bool          // Gate breach search on an entitled subscription (default: true)

	HousekeepingInterval time.Duration // default: 1h
	SessionRetention     time.Duration // default: 7 days
}

// LoadConfig reads the environment. A .env file in the working directory
// fills in variables the real environment leaves unset.
func LoadConfig() Config {
	_ = godotenv.Load()

	env := getEnvOrDefault("ENV", "dev")
	cfg := Config{
		Env:       env,
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		Port:                getEnvIntOrDefault("PORT", 8080),
		ReadTimeout:         getEnvDurationOrDefault("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:        getEnvDurationOrDefault("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:         getEnvDurationOrDefault("HTTP_IDLE_TIMEOUT", 120*time.Second),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		TrustProxyHeaders:   getEnvBoolOrDefault("TRUST_PROXY_HEADERS", false),
		SecureCookies:       getEnvBoolOrDefault("SECURE_COOKIES", env != "dev"),

		DatabaseFile:   getEnvOrDefault("GX_DATABASE_FILE", "gladiator.db"),
		PepperFile:     getEnvOrDefault("GX_PEPPER_FILE", "pepper"),
		SigningKeyFile: getEnvOrDefault("GX_SIGNING_KEY_FILE", "session.key"),
		Issuer:         getEnvOrDefault("GX_ISSUER", "gladiatorrx"),
		SessionTTL:     getEnvDurationOrDefault("GX_SESSION_TTL", 12*time.Hour),

		AppBaseURL:  strings.TrimRight(getEnvOrDefault("APP_BASE_URL", "http://localhost:3000"), "/"),
		MailFrom:    getEnvOrDefault("MAIL_FROM", "GladiatorRX <noreply@gladiatorrx.com>"),
		ProductName: getEnvOrDefault("PRODUCT_NAME", "GladiatorRX"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUser:    os.Getenv("SMTP_USERNAME"),
		SMTPPass:    os.Getenv("SMTP_PASSWORD"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripePriceID:       os.Getenv("STRIPE_PRICE_ID"),

		BreachAPIURL:        getEnvOrDefault("BREACH_API_URL", "https://haveibeenpwned.com/api/v3"),
		BreachAPIKey:        os.Getenv("BREACH_API_KEY"),
		BreachAPITimeout:    getEnvDurationOrDefault("BREACH_API_TIMEOUT", 10*time.Second),
		BreachParallelism:   getEnvIntOrDefault("BREACH_PARALLELISM", 4),
		RequireSubscription: getEnvBoolOrDefault("REQUIRE_SUBSCRIPTION", true),

		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
		SessionRetention:     getEnvDurationOrDefault("SESSION_RETENTION", 7*24*time.Hour),
	}

	return cfg
}

// Validate reports every problem with cfg at once.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.SessionTTL < time.Minute {
		errs = append(errs, errors.New("GX_SESSION_TTL must be at least 1m"))
	}
	if c.DatabaseFile == "" {
		errs = append(errs, errors.New("GX_DATABASE_FILE is required"))
	}
	if !strings.HasPrefix(c.AppBaseURL, "http://") && !strings.HasPrefix(c.AppBaseURL, "https://") {
		errs = append(errs, fmt.Errorf("APP_BASE_URL %q must be an http(s) URL", c.AppBaseURL))
	}
	if c.BreachParallelism < 1 || c.BreachParallelism > 20 {
		errs = append(errs, errors.New("BREACH_PARALLELISM must be between 1 and 20"))
	}
	if c.StripeSecretKey != "" && c.StripePriceID == "" {
		errs = append(errs, errors.New("STRIPE_PRICE_ID is required when STRIPE_SECRET_KEY is set"))
	}

	if c.Env == "prod" {
		if c.BreachAPIKey == "" {
			errs = append(errs, errors.New("BREACH_API_KEY is required in prod"))
		}
		if c.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required in prod"))
		}
		if !c.SecureCookies {
			errs = append(errs, errors.New("SECURE_COOKIES cannot be disabled in prod"))
		}
	}

	return errors.Join(errs...)
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
