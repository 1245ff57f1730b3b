package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Gateways stores base URLs of the two remote services.
type Gateways struct {
	AuthURL   string
	OrdersURL string
}

// Stub stores settings of the local dev stub server.
type Stub struct {
	Port           int
	RateLimitRPS   int // 0 disables rate limiting
	RateLimitBurst int
}

// Config stores application settings shared by both binaries.
type Config struct {
	Gateways Gateways
	Stub     Stub
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Gateways: DefaultGateways(),
		Stub:     DefaultStub(),
	}

	if v := os.Getenv("AUTH_URL"); v != "" {
		cfg.Gateways.AuthURL = v
	}
	if v := os.Getenv("ORDERS_URL"); v != "" {
		cfg.Gateways.OrdersURL = v
	}
	if err := envInt("PORT", &cfg.Stub.Port); err != nil {
		return nil, err
	}
	if err := envInt("RATE_LIMIT_RPS", &cfg.Stub.RateLimitRPS); err != nil {
		return nil, err
	}
	if err := envInt("RATE_LIMIT_BURST", &cfg.Stub.RateLimitBurst); err != nil {
		return nil, err
	}

	pflag.StringVar(&cfg.Gateways.AuthURL, "auth-url", cfg.Gateways.AuthURL, "base URL of the auth service")
	pflag.StringVar(&cfg.Gateways.OrdersURL, "orders-url", cfg.Gateways.OrdersURL, "base URL of the order service")
	pflag.IntVarP(&cfg.Stub.Port, "port", "p", cfg.Stub.Port, "port for the dev stub server")
	pflag.IntVar(&cfg.Stub.RateLimitRPS, "rps", cfg.Stub.RateLimitRPS, "dev stub rate limit, requests per second (0 disables)")
	pflag.IntVar(&cfg.Stub.RateLimitBurst, "burst", cfg.Stub.RateLimitBurst, "dev stub rate limit burst")
	pflag.Parse()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := validateURL("AUTH_URL", c.Gateways.AuthURL); err != nil {
		return err
	}
	if err := validateURL("ORDERS_URL", c.Gateways.OrdersURL); err != nil {
		return err
	}
	if c.Stub.Port <= 0 || c.Stub.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Stub.Port)
	}
	if c.Stub.RateLimitRPS < 0 {
		return fmt.Errorf("invalid rate limit rps: %d", c.Stub.RateLimitRPS)
	}
	if c.Stub.RateLimitBurst < 0 {
		return fmt.Errorf("invalid rate limit burst: %d", c.Stub.RateLimitBurst)
	}
	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: want http(s) URL with host", name, raw)
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = n
	return nil
}
