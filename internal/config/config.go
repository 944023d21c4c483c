package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/techhub-cart/internal/domain"
)

const (
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend  string
	Store    StoreConfig
	Database DatabaseConfig
	Policy   domain.CheckoutPolicy
	Currency currency.Unit
	LogLevel string
}

// StoreConfig points at the storefront REST API.
type StoreConfig struct {
	BaseURL string        // STORE_BASE_URL, required for the http backend
	Token   string        // STORE_TOKEN, sent as a bearer token
	Timeout time.Duration // STORE_TIMEOUT, bounds every cart and order call
}

type DatabaseConfig struct {
	URL string // DATABASE_URL, required for the postgres backend
}

// Load reads configuration from the environment, falling back to an optional .env file.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	if len(paths) == 0 {
		paths = []string{".", ".."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetDefault("STORE_BACKEND", BackendHTTP)
	v.SetDefault("STORE_TIMEOUT", "10s")
	v.SetDefault("FREE_SHIPPING_THRESHOLD", "75")
	v.SetDefault("SHIPPING_FEE", "10")
	v.SetDefault("TAX_RATE", "0")
	v.SetDefault("CURRENCY", "USD")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("v.ReadInConfig: %w", err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("STORE_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("STORE_TIMEOUT: %w", err)
	}

	threshold, err := decimalKey(v, "FREE_SHIPPING_THRESHOLD")
	if err != nil {
		return nil, err
	}
	fee, err := decimalKey(v, "SHIPPING_FEE")
	if err != nil {
		return nil, err
	}
	rate, err := decimalKey(v, "TAX_RATE")
	if err != nil {
		return nil, err
	}

	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(v.GetString("CURRENCY"))))
	if err != nil {
		return nil, fmt.Errorf("CURRENCY: %w", err)
	}

	cfg := &Config{
		Backend: strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		Store: StoreConfig{
			BaseURL: strings.TrimSpace(v.GetString("STORE_BASE_URL")),
			Token:   v.GetString("STORE_TOKEN"),
			Timeout: timeout,
		},
		Database: DatabaseConfig{
			URL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		},
		Policy: domain.CheckoutPolicy{
			FreeShippingThreshold: threshold,
			ShippingFee:           fee,
			TaxRate:               rate,
		},
		Currency: unit,
		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("STORE_BASE_URL is required")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	default:
		return fmt.Errorf("STORE_BACKEND %q is not supported", c.Backend)
	}

	if c.Store.Timeout < 0 {
		return fmt.Errorf("STORE_TIMEOUT is negative")
	}

	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy.Validate: %w", err)
	}

	return nil
}

func decimalKey(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
