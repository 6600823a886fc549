package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "SESSION_BACKEND", "MONGO_URI", "MONGO_DB",
		"REDIS_URI", "SQLITE_PATH", "HOST_USERNAME", "HOST_PASSWORD", "JWT_SECRET", "SESSION_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, BackendRedis, cfg.SessionBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "admin", cfg.HostUsername)
	assert.True(t, cfg.NeedsRedis())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("SQLITE_PATH", "/tmp/survey.db")
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("SESSION_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, BackendMemory, cfg.SessionBackend)
	assert.Equal(t, "/tmp/survey.db", cfg.SQLitePath)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.NeedsRedis())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown store", "STORE_BACKEND", "postgres"},
		{"sqlite sessions", "SESSION_BACKEND", "sqlite"},
		{"bad ttl", "SESSION_TTL", "soon"},
		{"negative ttl", "SESSION_TTL", "-1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTPPort:       "8080",
		StoreBackend:   BackendMemory,
		SessionBackend: BackendMemory,
		JWTSecret:      "s",
		SessionTTL:     time.Minute,
	}
	require.NoError(t, valid.Validate())

	noSecret := valid
	noSecret.JWTSecret = ""
	assert.Error(t, noSecret.Validate())

	sqliteNoPath := valid
	sqliteNoPath.StoreBackend = BackendSQLite
	assert.Error(t, sqliteNoPath.Validate())

	noPort := valid
	noPort.HTTPPort = ""
	assert.Error(t, noPort.Validate())
}
