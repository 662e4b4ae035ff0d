package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/navikt/roomboard/internal/config"
)

func TestGetServerConfigDefaults(t *testing.T) {
	cfg := config.GetServerConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.PushInterval)
	assert.False(t, cfg.SeedRooms)
}

func TestGetServerConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PUSH_INTERVAL_SECONDS", "10")
	t.Setenv("SEED_ROOMS", "true")

	cfg := config.GetServerConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.PushInterval)
	assert.True(t, cfg.SeedRooms)
}

func TestGetAuthConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL_HOURS", "12")

	cfg := config.GetAuthConfig()

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "roomboard", cfg.Issuer)
}

func TestGetRedisConfigDefaults(t *testing.T) {
	cfg := config.GetRedisConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "6379", cfg.Port)
	assert.Equal(t, "roomboard:", cfg.KeyPrefix)
	assert.Equal(t, time.Duration(0), cfg.RoomTTL)
}

func TestGetRedisConfigFromEnvironment(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_URI_ROOMBOARD", "redis://example.com:6380")
	t.Setenv("REDIS_ROOM_TTL_HOURS", "24")
	t.Setenv("REDIS_DB", "2")

	cfg := config.GetRedisConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "redis://example.com:6380", cfg.URI)
	assert.Equal(t, 24*time.Hour, cfg.RoomTTL)
	assert.Equal(t, 2, cfg.DB)
}
