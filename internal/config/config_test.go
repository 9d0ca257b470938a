package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STOCKDESK_API_URL", "http://api.local/")
	t.Setenv("STOCKDESK_HTTP_TIMEOUT", "")
	t.Setenv("IMPORT_RATE_LIMIT", "")
	t.Setenv("DRAFT_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://api.local", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, float64(0), cfg.Import.RatePerSecond)
	assert.Equal(t, 2*time.Hour, cfg.Server.DraftTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("STOCKDESK_HTTP_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STOCKDESK_HTTP_TIMEOUT", "5s")
	t.Setenv("IMPORT_RATE_LIMIT", "-1")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("IMPORT_RATE_LIMIT", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2.5, cfg.Import.RatePerSecond)
}
