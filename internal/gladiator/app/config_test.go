package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"ENV", "PORT", "GX_SESSION_TTL", "SECURE_COOKIES", "REQUIRE_SUBSCRIPTION", "APP_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 12*time.Hour, cfg.SessionTTL)
	require.False(t, cfg.SecureCookies, "dev defaults to insecure cookies")
	require.True(t, cfg.RequireSubscription)
	require.Equal(t, "http://localhost:3000", cfg.AppBaseURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "staging")
	t.Setenv("PORT", "9090")
	t.Setenv("GX_SESSION_TTL", "30m")
	t.Setenv("HOUSEKEEPING_INTERVAL", "15")
	t.Setenv("APP_BASE_URL", "https://app.gladiatorrx.com/")
	t.Setenv("SECURE_COOKIES", "")
	t.Setenv("REQUIRE_SUBSCRIPTION", "false")
	t.Setenv("BREACH_PARALLELISM", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval, "bare integers are minutes")
	require.Equal(t, "https://app.gladiatorrx.com", cfg.AppBaseURL)
	require.True(t, cfg.SecureCookies, "non-dev defaults to secure cookies")
	require.False(t, cfg.RequireSubscription)
	require.Equal(t, 4, cfg.BreachParallelism, "unparseable values fall back to the default")
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, ".env"), "GX_ISSUER=from-dotenv\nPORT=7000\n")
	t.Setenv("PORT", "9000")
	// Registered with Setenv so the value dotenv writes is restored afterwards.
	t.Setenv("GX_ISSUER", "unset")
	require.NoError(t, os.Unsetenv("GX_ISSUER"))

	cfg := LoadConfig()
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "from-dotenv", cfg.Issuer)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Env:               "dev",
		Port:              8080,
		SessionTTL:        time.Hour,
		DatabaseFile:      "gladiator.db",
		AppBaseURL:        "http://localhost:3000",
		BreachParallelism: 4,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Port = 70000 }, "PORT"},
		{"session ttl", func(c *Config) { c.SessionTTL = time.Second }, "GX_SESSION_TTL"},
		{"base url", func(c *Config) { c.AppBaseURL = "app.example.com" }, "APP_BASE_URL"},
		{"parallelism", func(c *Config) { c.BreachParallelism = 0 }, "BREACH_PARALLELISM"},
		{"stripe price", func(c *Config) { c.StripeSecretKey = "sk_test_1" }, "STRIPE_PRICE_ID"},
		{"prod breach key", func(c *Config) { c.Env = "prod"; c.SMTPHost = "smtp"; c.SecureCookies = true }, "BREACH_API_KEY"},
		{"prod smtp", func(c *Config) { c.Env = "prod"; c.BreachAPIKey = "k"; c.SecureCookies = true }, "SMTP_HOST"},
		{"prod cookies", func(c *Config) { c.Env = "prod"; c.BreachAPIKey = "k"; c.SMTPHost = "smtp" }, "SECURE_COOKIES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
