package middleware

import (
	"net/http"
	"time"

	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDKey é a chave do ID da requisição no contexto do gin
const RequestIDKey = "request_id"

// RequestIDHeader propaga o ID da requisição
const RequestIDHeader = "X-Request-ID"

// Middleware contém todos os middlewares da aplicação
type Middleware struct {
	logger              *zap.Logger
	rateLimitConfig     config.RateLimitConfig
	authMiddleware      *AuthMiddleware
	recoveryMiddleware  *RecoveryMiddleware
	securityMiddleware  *SecurityMiddleware
	tracingMiddleware   *TracingMiddleware
	metricsMiddleware   *MetricsMiddleware
	rateLimitMiddleware *RateLimitMiddleware
}

// NewMiddleware cria um novo conjunto de middlewares.
// limiter nil ou rate limit desativado deixa as rotas sem limite.
func NewMiddleware(cfg *config.Config, validator TokenValidator, limiter ratelimit.Limiter, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *Middleware {
	m := &Middleware{
		logger:             logger,
		rateLimitConfig:    cfg.RateLimit,
		authMiddleware:     NewAuthMiddleware(validator, logger),
		recoveryMiddleware: NewRecoveryMiddleware(logger),
		securityMiddleware: NewSecurityMiddleware(cfg.Server.AllowedOrigins, logger),
		tracingMiddleware:  NewTracingMiddleware(cfg.Tracing.ServiceName, logger),
	}
	if cfg.Metrics.Enabled {
		m.metricsMiddleware = NewMetricsMiddleware(apiMetrics, logger)
	}
	if cfg.RateLimit.Enabled && limiter != nil {
		m.rateLimitMiddleware = NewRateLimitMiddleware(limiter, cfg.RateLimit.BurstFactor, apiMetrics, logger)
	}
	return m
}

// Metrics retorna o middleware de métricas
func (m *Middleware) Metrics() gin.HandlerFunc {
	if m.metricsMiddleware != nil {
		return m.metricsMiddleware.Middleware()
	}
	return noop
}

// Authenticate middleware para autenticação de usuários
func (m *Middleware) Authenticate(c *gin.Context) {
	m.authMiddleware.Authenticate(c)
}

// RequireAdmin middleware que restringe a rota a administradores
func (m *Middleware) RequireAdmin(c *gin.Context) {
	m.authMiddleware.RequireAdmin(c)
}

// LoginRateLimit limita as tentativas de login por IP
func (m *Middleware) LoginRateLimit() gin.HandlerFunc {
	if m.rateLimitMiddleware == nil {
		return noop
	}
	return m.rateLimitMiddleware.IPRateLimit("login", m.rateLimitConfig.LoginLimit, m.rateLimitConfig.LoginPeriod)
}

// AnalysisRateLimit limita as análises de sites e chamadas de IA por IP
func (m *Middleware) AnalysisRateLimit() gin.HandlerFunc {
	if m.rateLimitMiddleware == nil {
		return noop
	}
	return m.rateLimitMiddleware.IPRateLimit("analysis", m.rateLimitConfig.AnalysisLimit, m.rateLimitConfig.AnalysisPeriod)
}

// Recovery middleware para recuperação de pânicos
func (m *Middleware) Recovery() gin.HandlerFunc {
	return m.recoveryMiddleware.Recovery()
}

// IgnoreFavicon responde 204 para /favicon.ico
func (m *Middleware) IgnoreFavicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/favicon.ico" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestID reaproveita o X-Request-ID recebido ou gera um novo
func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// Logger middleware para logging de requisições
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString(RequestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			m.logger.Error("request completed", fields...)
		case status >= 400:
			m.logger.Warn("request completed", fields...)
		default:
			m.logger.Info("request completed", fields...)
		}
	}
}

// SecurityHeaders middleware para adicionar cabeçalhos de segurança
func (m *Middleware) SecurityHeaders() gin.HandlerFunc {
	return m.securityMiddleware.Headers()
}

// CORS middleware para configurar CORS
func (m *Middleware) CORS() gin.HandlerFunc {
	return m.securityMiddleware.CORS()
}

// Tracing retorna o middleware de tracing
func (m *Middleware) Tracing() gin.HandlerFunc {
	return m.tracingMiddleware.Middleware()
}

func noop(c *gin.Context) {
	c.Next()
}
