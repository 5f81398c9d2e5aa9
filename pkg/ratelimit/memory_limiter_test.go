package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/diillson/cotizai-api/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	limiter := ratelimit.NewMemoryLimiter(zaptest.NewLogger(t))
	config := ratelimit.LimitConfig{Key: "login:10.0.0.1", Limit: 3, Period: time.Minute}

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, config)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, config)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.GreaterOrEqual(t, res.ResetAfter, time.Second)

	t.Run("keys are independent", func(t *testing.T) {
		other := config
		other.Key = "login:10.0.0.2"
		res, err := limiter.Allow(ctx, other)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})
}

func TestMemoryLimiter_BurstFactor(t *testing.T) {
	ctx := context.Background()
	limiter := ratelimit.NewMemoryLimiter(zaptest.NewLogger(t))
	config := ratelimit.LimitConfig{Key: "analysis:x", Limit: 2, Period: time.Minute, BurstFactor: 2}

	allowed := 0
	for i := 0; i < 6; i++ {
		res, err := limiter.Allow(ctx, config)
		require.NoError(t, err)
		if res.Allowed {
			allowed++
		}
	}
	assert.Equal(t, 4, allowed)
}

func TestMemoryLimiter_InvalidConfig(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(zaptest.NewLogger(t))

	res, err := limiter.Allow(context.Background(), ratelimit.LimitConfig{Key: "k", Limit: 0, Period: time.Minute})
	assert.Error(t, err)
	assert.True(t, res.Allowed)
}
