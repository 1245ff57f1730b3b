package config_test

import (
	"os"
	"testing"

	"angdelivery/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	t.Cleanup(func() {
		pflag.CommandLine = old
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_URL", "")
	t.Setenv("ORDERS_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, "http://localhost:8081/auth", cfg.Gateways.AuthURL)
	require.Equal(t, "http://localhost:8081/orders", cfg.Gateways.OrdersURL)
	require.Equal(t, 8081, cfg.Stub.Port)
	require.Equal(t, 0, cfg.Stub.RateLimitRPS)
	require.Equal(t, 5, cfg.Stub.RateLimitBurst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("AUTH_URL", "https://auth.example.com/fn")
	t.Setenv("ORDERS_URL", "https://orders.example.com/fn")
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_RPS", "20")
	t.Setenv("RATE_LIMIT_BURST", "40")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, "https://auth.example.com/fn", cfg.Gateways.AuthURL)
	require.Equal(t, "https://orders.example.com/fn", cfg.Gateways.OrdersURL)
	require.Equal(t, 9090, cfg.Stub.Port)
	require.Equal(t, 20, cfg.Stub.RateLimitRPS)
	require.Equal(t, 40, cfg.Stub.RateLimitBurst)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "70000")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidAuthURL(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("AUTH_URL", "not a url")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidRPS(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("RATE_LIMIT_RPS", "-1")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_MalformedEnvInt(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "not-a-number")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}
