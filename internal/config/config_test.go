package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"LEDGER_PATH", "FEED_PATH", "MIN_RATING", "MIN_SALES", "MIN_COMMISSION", "REQUEST_INTERVAL", "SHOPEE_API_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "banco_ofertas_completo.csv", cfg.LedgerPath)
	assert.Equal(t, "ofertas.js", cfg.FeedPath)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 4.7, cfg.MinRating)
	assert.Equal(t, 50.0, cfg.MinSales)
	assert.Equal(t, 1.50, cfg.MinCommission)
	assert.Equal(t, 2*time.Second, cfg.RequestInterval)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEDGER_PATH", "/dados/banco.csv")
	t.Setenv("MIN_RATING", "4.5")
	t.Setenv("MIN_SALES", "abc")
	t.Setenv("REQUEST_INTERVAL", "500ms")

	cfg := Load()
	assert.Equal(t, "/dados/banco.csv", cfg.LedgerPath)
	assert.Equal(t, 4.5, cfg.MinRating)
	assert.Equal(t, 50.0, cfg.MinSales, "unparsable values keep the default")
	assert.Equal(t, 500*time.Millisecond, cfg.RequestInterval)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty ledger path", func(c *Config) { c.LedgerPath = "" }},
		{"rating above 5", func(c *Config) { c.MinRating = 6 }},
		{"negative commission", func(c *Config) { c.MinCommission = -1 }},
		{"bad api url", func(c *Config) { c.APIURL = "não é url" }},
		{"metrics port not numeric", func(c *Config) { c.MetricsPort = "nove" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireCredentials())

	cfg.AppID, cfg.APISecret = "123", "segredo"
	assert.NoError(t, cfg.RequireCredentials())
}
