package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithEnvCredentials(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_SECRET", "push-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "hunter2", cfg.Admin.Password)
	assert.Equal(t, 3*time.Second, cfg.Broadcast.Interval)
	assert.Equal(t, 10, cfg.RateLimiter.MaxRatePerSecond)
	assert.Equal(t, 20, cfg.RateLimiter.MaxBurst)
	assert.False(t, cfg.AMQP.Enabled)
}

func TestLoad_MissingCredentials(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingAdminCredentials)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
http:
  port: 9090
admin:
  username: operator
  password: from-file
  secret: file-secret
broadcast:
  interval: 10s
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("BROADCAST_INTERVAL_SECONDS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Environment wins over the file.
	assert.Equal(t, uint16(9999), cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.Broadcast.Interval)

	// File wins over defaults.
	assert.Equal(t, "operator", cfg.Admin.Username)
	assert.Equal(t, "from-file", cfg.Admin.Password)
	assert.Equal(t, "file-secret", cfg.Admin.Secret)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
