package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// MemoryCache implementa a interface Cache usando go-cache
type MemoryCache struct {
	cache   *cache.Cache
	logger  *zap.Logger
	hits    int64
	misses  int64
	metrics *metrics.APIMetrics
}

// NewMemoryCache cria uma nova instância de MemoryCache
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration, metrics *metrics.APIMetrics, logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		cache:   cache.New(defaultExpiration, cleanupInterval),
		logger:  logger,
		metrics: metrics,
	}
}

// Set armazena um valor no cache. Expiração zero usa o padrão do cache.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration == 0 {
		expiration = cache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
	return nil
}

// Get recupera um valor do cache
func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	value, found := c.cache.Get(key)
	if !found {
		c.record(false)
		return false, nil
	}
	c.record(true)

	switch d := dest.(type) {
	case *string:
		if str, ok := value.(string); ok {
			*d = str
			return true, nil
		}
	case *bool:
		if b, ok := value.(bool); ok {
			*d = b
			return true, nil
		}
	case *int64:
		if i, ok := value.(int64); ok {
			*d = i
			return true, nil
		}
	}

	// Estruturas passam por JSON
	data, err := json.Marshal(value)
	if err != nil {
		return true, fmt.Errorf("falha ao serializar do cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("falha ao deserializar para o destino", zap.String("key", key), zap.Error(err))
		return true, err
	}
	return true, nil
}

// Delete remove um valor do cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear remove todos os valores do cache
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.cache.Flush()
	return nil
}

// Ping verifica se o cache está funcionando
func (c *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

// ItemCount retorna o número de itens armazenados, incluindo expirados ainda não limpos
func (c *MemoryCache) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *MemoryCache) record(hit bool) {
	var hits, misses int64
	if hit {
		hits = atomic.AddInt64(&c.hits, 1)
		misses = atomic.LoadInt64(&c.misses)
	} else {
		misses = atomic.AddInt64(&c.misses, 1)
		hits = atomic.LoadInt64(&c.hits)
	}
	if total := hits + misses; total > 0 {
		c.metrics.UpdateCacheHitRatio("memory", float64(hits)/float64(total))
	}
}
