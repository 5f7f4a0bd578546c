package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "calcLoveWahr4Layer", cfg.Love.Program)
	assert.Equal(t, 60*time.Second, cfg.Love.Timeout)
	assert.Equal(t, os.TempDir(), cfg.Love.WorkDir)
	assert.Error(t, cfg.RequireSatellite())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SATSTRESS_SERVER_PORT", "9090")
	t.Setenv("SATSTRESS_LOG_LEVEL", "debug")
	t.Setenv("SATSTRESS_LOVE_TIMEOUT", "5s")
	t.Setenv("SATSTRESS_SATELLITE_FILE", "/data/europa.satellite")
	t.Setenv("SATSTRESS_SERVER_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.Love.Timeout)
	assert.Equal(t, "/data/europa.satellite", cfg.Satellite.File)
	assert.Equal(t, "https://a.example,https://b.example", cfg.Server.CORSAllowedOrigins)
	assert.NoError(t, cfg.RequireSatellite())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "satstress.yaml")
	content := `server:
  port: 7000
love:
  program: /opt/love/calcLoveWahr4Layer
  timeout: 2m
satellite:
  file: europa.satellite
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/opt/love/calcLoveWahr4Layer", cfg.Love.Program)
	assert.Equal(t, 2*time.Minute, cfg.Love.Timeout)
	assert.Equal(t, "europa.satellite", cfg.Satellite.File)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, field string
	}{
		{"port", "SATSTRESS_SERVER_PORT", "70000", "Port"},
		{"level", "SATSTRESS_LOG_LEVEL", "verbose", "Level"},
		{"timeout", "SATSTRESS_LOVE_TIMEOUT", "0s", "Timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(New(), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
