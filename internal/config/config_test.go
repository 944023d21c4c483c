package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/techhub-cart/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BASE_URL", "http://store.local")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, config.BackendHTTP, cfg.Backend)
	assert.Equal(t, "http://store.local", cfg.Store.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "75", cfg.Policy.FreeShippingThreshold.String())
	assert.Equal(t, "10", cfg.Policy.ShippingFee.String())
	assert.True(t, cfg.Policy.TaxRate.IsZero())
	assert.Equal(t, currency.USD, cfg.Currency)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "STORE_BASE_URL=http://from-file\nSTORE_TOKEN=abc\nTAX_RATE=0.08\nCURRENCY=eur\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	t.Setenv("STORE_BASE_URL", "")
	t.Setenv("STORE_TOKEN", "from-env")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://from-file", cfg.Store.BaseURL)
	assert.Equal(t, "from-env", cfg.Store.Token)
	assert.Equal(t, "0.08", cfg.Policy.TaxRate.String())
	assert.Equal(t, currency.EUR, cfg.Currency)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantError string
	}{
		{
			name:      "missing base url: error",
			env:       map[string]string{},
			wantError: "STORE_BASE_URL is required",
		},
		{
			name:      "postgres without url: error",
			env:       map[string]string{"STORE_BACKEND": "postgres"},
			wantError: "DATABASE_URL is required",
		},
		{
			name:      "unknown backend: error",
			env:       map[string]string{"STORE_BACKEND": "grpc"},
			wantError: `STORE_BACKEND "grpc" is not supported`,
		},
		{
			name:      "bad timeout: error",
			env:       map[string]string{"STORE_BASE_URL": "http://x", "STORE_TIMEOUT": "soon"},
			wantError: `STORE_TIMEOUT: time: invalid duration "soon"`,
		},
		{
			name:      "tax rate above one: error",
			env:       map[string]string{"STORE_BASE_URL": "http://x", "TAX_RATE": "1.5"},
			wantError: "policy.Validate: taxRate: must be between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_BASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(t.TempDir())
			require.EqualError(t, err, tt.wantError)
		})
	}
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://cart@localhost:5432/cart")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.BackendPostgres, cfg.Backend)
	assert.Equal(t, "postgres://cart@localhost:5432/cart", cfg.Database.URL)
}
