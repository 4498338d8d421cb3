package solarform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solarform.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("providers", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig("providers"), cfg)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.Relay.Timeout)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
port: 8080
db_path: /var/lib/solarform/leads.db
session_ttl: 2h
relay:
  endpoint: https://relay.example.org/ajax/leads@example.org
  subject: Solar lead
  timeout: 5s
`)
	cfg, err := LoadConfig("general", path)
	require.NoError(t, err)
	assert.Equal(t, "general", cfg.Variant)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, "/var/lib/solarform/leads.db", cfg.DBPath)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "https://relay.example.org/ajax/leads@example.org", cfg.Relay.Endpoint)
	assert.Equal(t, "Solar lead", cfg.Relay.Subject)
	assert.Equal(t, 5*time.Second, cfg.Relay.Timeout)
	// untouched keys keep their defaults
	assert.Equal(t, "solarform-session", cfg.CookieName)
	assert.Equal(t, 100, cfg.QueueLength)
}

func TestLoadConfigEnv(t *testing.T) {
	path := writeConfig(t, "port: 8080\nqueue_length: 5\n")
	t.Setenv("SOLARFORM_PORT", "9090")
	t.Setenv("SOLARFORM_VARIANT", "providers")
	t.Setenv("SOLARFORM_RELAY_ENDPOINT", "https://relay.example.org/ajax/other@example.org")
	t.Setenv("SOLARFORM_RELAY_TIMEOUT", "750ms")
	t.Setenv("SOLARFORM_SESSION_TTL", "30m")

	cfg, err := LoadConfig("general", path)
	require.NoError(t, err)
	assert.Equal(t, uint16(9090), cfg.Port)
	assert.Equal(t, "general", cfg.Variant, "environment changed the variant")
	assert.Equal(t, 5, cfg.QueueLength)
	assert.Equal(t, "https://relay.example.org/ajax/other@example.org", cfg.Relay.Endpoint)
	assert.Equal(t, 750*time.Millisecond, cfg.Relay.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("general", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err, "missing config file")

	_, err = LoadConfig("general", writeConfig(t, "port: [1, 2]\n"))
	assert.Error(t, err, "invalid yaml")

	_, err = LoadConfig("rooftop", "")
	assert.Error(t, err, "unknown variant")

	_, err = LoadConfig("general", writeConfig(t, "session_ttl: 0s\n"))
	assert.Error(t, err, "zero session ttl")

	t.Setenv("SOLARFORM_PORT", "70000")
	t.Setenv("SOLARFORM_QUEUE_LENGTH", "many")
	cfg, err := LoadConfig("general", "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "SOLARFORM_PORT")
	assert.ErrorContains(t, err, "SOLARFORM_QUEUE_LENGTH")
	assert.Equal(t, uint16(3000), cfg.Port, "invalid port replaced the default")
	assert.Equal(t, 100, cfg.QueueLength)
}

func TestLoadConfigFixedVariant(t *testing.T) {
	path := writeConfig(t, "variant: providers\nport: 8080\n")
	t.Setenv("SOLARFORM_VARIANT", "providers")

	cfg, err := LoadConfig("general", path)
	require.NoError(t, err)
	assert.Equal(t, "general", cfg.Variant)
	assert.Equal(t, uint16(8080), cfg.Port)
}
