package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// fixedWindow incrementa o contador da janela atual e define a expiração no primeiro acesso
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIREAT', KEYS[1], tonumber(ARGV[1]))
end
return {count, tonumber(ARGV[1]) - tonumber(ARGV[2])}
`)

// RedisLimiter implementa rate limiting de janela fixa compartilhado entre instâncias
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRedisLimiter cria um novo limitador baseado em Redis
func NewRedisLimiter(client *redis.Client, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("cotizai.ratelimit"),
	}
}

// Allow verifica se a requisição é permitida dentro do limite de taxa
func (r *RedisLimiter) Allow(ctx context.Context, config LimitConfig) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "RedisLimiter.Allow", trace.WithAttributes(
		attribute.String("ratelimit.key", config.Key),
		attribute.Int("ratelimit.limit", config.Limit),
		attribute.Int64("ratelimit.period_ms", config.Period.Milliseconds()),
	))
	defer span.End()

	config, err := config.validate()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{Allowed: true}, err
	}

	now := time.Now().Unix()
	periodSeconds := int64(config.Period.Seconds())
	if periodSeconds < 1 {
		periodSeconds = 1
	}
	expireAt := now - (now % periodSeconds) + periodSeconds
	key := fmt.Sprintf("cotizai:ratelimit:%s", config.Key)

	raw, err := fixedWindow.Run(ctx, r.client, []string{key}, expireAt, now).Result()
	if err != nil {
		r.logger.Error("erro ao executar script de rate limit", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "redis script error")
		return Result{Allowed: true, Limit: config.Limit, Remaining: config.Limit}, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		span.SetStatus(codes.Error, "unexpected result")
		return Result{Allowed: true, Limit: config.Limit, Remaining: config.Limit}, errors.New("resultado inválido do Redis")
	}

	count, _ := strconv.Atoi(fmt.Sprintf("%v", values[0]))
	ttl, _ := strconv.ParseInt(fmt.Sprintf("%v", values[1]), 10, 64)

	burst := config.burstLimit()
	allowed := count <= burst
	remaining := burst - count
	if remaining < 0 {
		remaining = 0
	}

	span.SetAttributes(
		attribute.Int("ratelimit.count", count),
		attribute.Int("ratelimit.burst_limit", burst),
		attribute.Bool("ratelimit.allowed", allowed),
	)
	if allowed {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, "rate limit exceeded")
	}

	return Result{
		Allowed:    allowed,
		Limit:      config.Limit,
		Remaining:  remaining,
		ResetAfter: time.Duration(ttl) * time.Second,
	}, nil
}
