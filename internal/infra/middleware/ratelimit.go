package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"github.com/diillson/cotizai-api/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MsgTooManyRequests é devolvida quando o limite é excedido
const MsgTooManyRequests = "Demasiadas solicitudes. Intente nuevamente más tarde."

// RateLimitMiddleware gerencia rate limiting por IP
type RateLimitMiddleware struct {
	limiter     ratelimit.Limiter
	burstFactor float64
	logger      *zap.Logger
	metrics     *metrics.APIMetrics
}

// NewRateLimitMiddleware cria um novo middleware de rate limiting
func NewRateLimitMiddleware(limiter ratelimit.Limiter, burstFactor float64, metrics *metrics.APIMetrics, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter:     limiter,
		burstFactor: burstFactor,
		logger:      logger,
		metrics:     metrics,
	}
}

// IPRateLimit limita as requisições de cada IP dentro do grupo name
func (m *RateLimitMiddleware) IPRateLimit(name string, limit int, period time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		config := ratelimit.LimitConfig{
			Key:         name + ":" + clientIP,
			Limit:       limit,
			Period:      period,
			BurstFactor: m.burstFactor,
		}

		result, err := m.limiter.Allow(c.Request.Context(), config)
		if err != nil {
			// em caso de erro a requisição passa
			m.logger.Error("erro ao verificar rate limit", zap.String("limit", name), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(result.ResetAfter).Unix(), 10))

		if !result.Allowed {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			m.metrics.RateLimitExceeded(path, c.Request.Method, name)
			m.logger.Warn("rate limit excedido",
				zap.String("limit", name),
				zap.String("ip", clientIP),
				zap.String("path", path))

			retryAfter := int(result.ResetAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"error":       MsgTooManyRequests,
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
