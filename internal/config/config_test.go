package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, 720*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 4, cfg.IngestWorkers)
	assert.False(t, cfg.IsRedisEnabled())
	assert.False(t, cfg.IsMinIOEnabled())
	assert.False(t, cfg.IsSMTPEnabled())
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/leads")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_TTL", "forever")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestLoad_MinIORequiresCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "")
	t.Setenv("MINIO_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "MINIO_ACCESS_KEY")
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{
		FrontendURL:        "https://app.example.com",
		CORSAllowedOrigins: []string{"https://app.example.com", "http://localhost:5173"},
	}
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.AllowedOrigins())
}

func TestAllowedOrigins_DefaultsToLocal(t *testing.T) {
	cfg := &Config{}
	assert.Contains(t, cfg.AllowedOrigins(), "http://localhost:5173")
}
