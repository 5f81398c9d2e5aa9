package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RedisCache implementa a interface Cache usando Redis
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRedisClient cria o cliente Redis a partir da configuração e testa a conexão
func NewRedisClient(ctx context.Context, opts config.RedisOptions, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		DialTimeout:  opts.DialTimeout,
		PoolTimeout:  opts.PoolTimeout,
		IdleTimeout:  opts.IdleTimeout,
		MaxConnAge:   opts.MaxConnAge,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Falha ao conectar ao Redis", zap.String("addr", opts.Address), zap.Error(err))
		_ = client.Close()
		return nil, err
	}

	logger.Info("Conexão com Redis estabelecida",
		zap.String("addr", opts.Address),
		zap.Int("db", opts.DB))
	return client, nil
}

// NewRedisCache cria um cache sobre um cliente Redis já conectado
func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("cotizai.cache.redis"),
	}
}

// Set armazena um valor serializado em JSON
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Set", trace.WithAttributes(
		attribute.String("cache.key", key),
		attribute.Int64("cache.expiration_ms", expiration.Milliseconds()),
	))
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		return failSpan(span, "serialization failure", err)
	}
	span.SetAttributes(attribute.Int("cache.data_size_bytes", len(data)))

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		c.logger.Error("falha ao armazenar no Redis", zap.String("key", key), zap.Error(err))
		return failSpan(span, "redis error", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Get recupera um valor do cache. Chave ausente não é erro.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Get", trace.WithAttributes(
		attribute.String("cache.key", key),
	))
	defer span.End()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			span.SetStatus(codes.Ok, "cache miss")
			return false, nil
		}
		c.logger.Error("falha ao recuperar do cache", zap.String("key", key), zap.Error(err))
		return false, failSpan(span, "redis error", err)
	}

	span.SetAttributes(
		attribute.Bool("cache.hit", true),
		attribute.Int("cache.data_size_bytes", len(data)),
	)

	if err := json.Unmarshal(data, dest); err != nil {
		return false, failSpan(span, "deserialization failure", err)
	}

	span.SetStatus(codes.Ok, "cache hit")
	return true, nil
}

// Delete remove um valor do cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Delete", trace.WithAttributes(
		attribute.String("cache.key", key),
	))
	defer span.End()

	removed, err := c.client.Del(ctx, key).Result()
	if err != nil {
		return failSpan(span, "redis error", err)
	}
	span.SetAttributes(attribute.Int64("cache.keys_removed", removed))
	span.SetStatus(codes.Ok, "")
	return nil
}

// Clear remove todas as chaves da aplicação
func (c *RedisCache) Clear(ctx context.Context) error {
	return c.ClearPattern(ctx, KeyPrefix+"*")
}

// ClearPattern remove valores do cache por padrão, iterando com SCAN
func (c *RedisCache) ClearPattern(ctx context.Context, pattern string) error {
	ctx, span := c.tracer.Start(ctx, "RedisCache.ClearPattern", trace.WithAttributes(
		attribute.String("cache.pattern", pattern),
	))
	defer span.End()

	var removed int64
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return failSpan(span, "redis delete error", err)
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("falha ao listar chaves do cache", zap.Error(err))
		return failSpan(span, "redis scan error", err)
	}

	span.SetAttributes(attribute.Int64("cache.keys_removed", removed))
	span.SetStatus(codes.Ok, "")
	return nil
}

// Ping verifica se o Redis está acessível
func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Ping")
	defer span.End()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return failSpan(span, "redis ping failure", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func failSpan(span trace.Span, description string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, description)
	return err
}
