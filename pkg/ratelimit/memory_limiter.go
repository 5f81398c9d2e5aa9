package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MemoryLimiter implementa rate limiting em processo com token buckets.
// Buckets ociosos expiram depois de dois períodos.
type MemoryLimiter struct {
	buckets *cache.Cache
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewMemoryLimiter cria um limitador em memória
func NewMemoryLimiter(logger *zap.Logger) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: cache.New(10*time.Minute, time.Minute),
		logger:  logger,
	}
}

// Allow consome um token do bucket da chave
func (m *MemoryLimiter) Allow(ctx context.Context, config LimitConfig) (Result, error) {
	config, err := config.validate()
	if err != nil {
		return Result{Allowed: true}, err
	}

	limiter := m.bucket(config)
	allowed := limiter.Allow()

	remaining := int(math.Floor(limiter.Tokens()))
	if remaining < 0 {
		remaining = 0
	}

	var resetAfter time.Duration
	if !allowed {
		perToken := config.Period / time.Duration(config.Limit)
		resetAfter = time.Duration(math.Ceil(float64(perToken) * (1 - limiter.Tokens())))
		if resetAfter < time.Second {
			resetAfter = time.Second
		}
	}

	return Result{
		Allowed:    allowed,
		Limit:      config.Limit,
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}, nil
}

func (m *MemoryLimiter) bucket(config LimitConfig) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value, found := m.buckets.Get(config.Key); found {
		m.buckets.Set(config.Key, value, 2*config.Period)
		return value.(*rate.Limiter)
	}

	every := rate.Every(config.Period / time.Duration(config.Limit))
	limiter := rate.NewLimiter(every, config.burstLimit())
	m.buckets.Set(config.Key, limiter, 2*config.Period)
	m.logger.Debug("bucket de rate limit criado", zap.String("key", config.Key))
	return limiter
}
