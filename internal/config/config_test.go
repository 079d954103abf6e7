package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 60, cfg.RateLimitRPM)
	assert.Equal(t, 24*60, cfg.TokenTTLMinutes)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, 5, cfg.DBMinConns)
	assert.Len(t, cfg.AllowedOrigins, 2)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("TOKEN_TTL_MINUTES", "60")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com")
	t.Setenv("DB_MAX_CONNS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 60, cfg.TokenTTLMinutes)
	assert.Equal(t, []string{"https://example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 10, cfg.DBMaxConns)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestProductionValidation(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	t.Run("requires database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "real-secret")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("requires a real jwt secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/disaster")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/disaster")
		t.Setenv("JWT_SECRET", "real-secret")
		_, err := Load()
		assert.NoError(t, err)
	})
}
