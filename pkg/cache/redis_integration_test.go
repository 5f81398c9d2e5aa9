//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/diillson/cotizai-api/pkg/cache"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "falha ao iniciar o container redis")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisCacheAndLimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("integração com redis pulada em -short")
	}

	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	client, err := cache.NewRedisClient(ctx, config.RedisOptions{
		Address:     startRedis(t),
		PoolSize:    4,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	t.Run("cache", func(t *testing.T) {
		c := cache.NewRedisCache(client, logger)
		require.NoError(t, c.Ping(ctx))

		key := cache.RevokedTokenKey("jti-redis")
		require.NoError(t, c.Set(ctx, key, true, time.Minute))

		var revoked bool
		found, err := c.Get(ctx, key, &revoked)
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, revoked)

		require.NoError(t, c.Set(ctx, "cotizai:quote", quote{Nombre: "Landing", Total: 3}, time.Minute))
		var q quote
		found, err = c.Get(ctx, "cotizai:quote", &q)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Landing", q.Nombre)

		require.NoError(t, c.Delete(ctx, key))
		found, err = c.Get(ctx, key, &revoked)
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, c.ClearPattern(ctx, "cotizai:*"))
		found, _ = c.Get(ctx, "cotizai:quote", &q)
		assert.False(t, found)
	})

	t.Run("limiter", func(t *testing.T) {
		limiter := ratelimit.NewRedisLimiter(client, logger)
		cfg := ratelimit.LimitConfig{Key: "login:203.0.113.9", Limit: 2, Period: time.Minute}

		for i := 0; i < 2; i++ {
			res, err := limiter.Allow(ctx, cfg)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		}

		res, err := limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Zero(t, res.Remaining)
		assert.LessOrEqual(t, res.ResetAfter, time.Minute)
	})
}
