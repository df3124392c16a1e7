package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STOREFRONT_APP_ENV", "dev")
	t.Setenv("STOREFRONT_APP_PORT", "8080")
	t.Setenv("STOREFRONT_UPSTREAM_BASE_URL", "https://shop.example/api")
	t.Setenv("STOREFRONT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STOREFRONT_JWT_SECRET", "secret")
	t.Setenv("STOREFRONT_JWT_ISSUER", "storefront-gateway")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.True(t, cfg.App.IsDev())
	require.False(t, cfg.App.IsProd())
	require.Equal(t, "info", cfg.App.LogLevel)
	require.Equal(t, 15*time.Second, cfg.Upstream.RequestTimeout)
	require.Equal(t, 300*time.Millisecond, cfg.Cart.DebounceQuietPeriod)
	require.Equal(t, 168*time.Hour, cfg.Cart.SessionTTL)
	require.Equal(t, 8, cfg.Orders.MaxParallelPages)
	require.Equal(t, 1440, cfg.JWT.ExpirationMinutes)
	require.Equal(t, 30, cfg.RateLimit.ExchangeLimit)
	require.Equal(t, time.Minute, cfg.RateLimit.ExchangeWindow)
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STOREFRONT_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadUpstreamURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STOREFRONT_UPSTREAM_BASE_URL", "ftp://shop.example")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STOREFRONT_CART_DEBOUNCE_QUIET_PERIOD", "150ms")
	t.Setenv("STOREFRONT_ORDERS_MAX_PARALLEL_PAGES", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 150*time.Millisecond, cfg.Cart.DebounceQuietPeriod)
	require.Equal(t, 3, cfg.Orders.MaxParallelPages)
}
