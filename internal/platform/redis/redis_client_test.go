package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg := LoadConfig()

	assert.Equal(t, Config{Host: "cache.internal", Port: "6379", Password: "secret"}, cfg)
	assert.Equal(t, "cache.internal:6379", cfg.Addr())
}

func TestNewRedisClient_NotConfigured(t *testing.T) {
	rdb, err := NewRedisClient(Config{Port: "6379"})

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, rdb)
}

func TestNewRedisClient_Success(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb, err := NewRedisClient(Config{Host: mr.Host(), Port: mr.Port()})

	require.NoError(t, err)
	defer func() { _ = rdb.Close() }()
	assert.NotNil(t, rdb)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	rdb, err := NewRedisClient(Config{Host: host, Port: port})

	assert.Error(t, err)
	assert.Nil(t, rdb)
}
