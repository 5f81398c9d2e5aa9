package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/diillson/cotizai-api/internal/infra/middleware"
	"github.com/diillson/cotizai-api/internal/mocks"
	"github.com/diillson/cotizai-api/internal/testutils"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/diillson/cotizai-api/pkg/ratelimit"
	"github.com/diillson/cotizai-api/pkg/security"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after"`
}

type stubValidator map[string]*security.Claims

func (s stubValidator) ValidateToken(ctx context.Context, token string) (*security.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, security.ErrTokenInvalid
}

func authRouter(t *testing.T) *gin.Engine {
	validator := stubValidator{
		"admin-token":     {Username: "admin", Rol: "admin", Area: "Administración"},
		"cotizador-token": {Username: "cotizador", Rol: "cotizador", Area: "Comercial"},
	}
	m := middleware.NewMiddleware(testutils.TestConfig(), validator, nil, nil, testutils.TestLogger(t))

	router := testutils.SetupTestRouter(t)
	router.GET("/perfil", m.Authenticate, func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	router.GET("/admin", m.Authenticate, m.RequireAdmin, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthenticate(t *testing.T) {
	router := authRouter(t)

	tests := []struct {
		name    string
		headers map[string]string
		status  int
		message string
	}{
		{"no header", nil, http.StatusUnauthorized, apierrors.MsgTokenRequired},
		{"no bearer prefix", map[string]string{"Authorization": "admin-token"}, http.StatusUnauthorized, apierrors.MsgTokenRequired},
		{"empty bearer", map[string]string{"Authorization": "Bearer "}, http.StatusUnauthorized, apierrors.MsgTokenRequired},
		{"unknown token", testutils.BearerHeader("outro"), http.StatusUnauthorized, apierrors.MsgTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutils.MakeRequest(t, router, http.MethodGet, "/perfil", nil, tt.headers)
			testutils.RequireHTTPStatus(t, resp, tt.status)

			var body envelope
			testutils.ParseResponse(t, resp, &body)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error)
		})
	}

	t.Run("valid token", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, http.MethodGet, "/perfil", nil, testutils.BearerHeader("cotizador-token"))
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)

		var body map[string]string
		testutils.ParseResponse(t, resp, &body)
		assert.Equal(t, "cotizador", body["username"])
	})
}

func TestRequireAdmin(t *testing.T) {
	router := authRouter(t)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/admin", nil, testutils.BearerHeader("cotizador-token"))
	testutils.RequireHTTPStatus(t, resp, http.StatusForbidden)
	var body envelope
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, apierrors.MsgAdminRequired, body.Error)

	resp = testutils.MakeRequest(t, router, http.MethodGet, "/admin", nil, testutils.BearerHeader("admin-token"))
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
}

func TestLoginRateLimit(t *testing.T) {
	cfg := testutils.TestConfig()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.LoginLimit = 2
	cfg.RateLimit.LoginPeriod = time.Minute

	limiter := new(mocks.MockLimiter)
	limiter.On("Allow", mock.Anything, mock.MatchedBy(func(c ratelimit.LimitConfig) bool {
		return c.Limit == 2 && c.Period == time.Minute && strings.HasPrefix(c.Key, "login:")
	})).Return(ratelimit.Result{Allowed: true, Limit: 2, Remaining: 1, ResetAfter: time.Second}, nil).Once()
	limiter.On("Allow", mock.Anything, mock.Anything).
		Return(ratelimit.Result{Allowed: false, Limit: 2, Remaining: 0, ResetAfter: 30 * time.Second}, nil).Once()
	limiter.On("Allow", mock.Anything, mock.Anything).
		Return(ratelimit.Result{}, errors.New("redis indisponível")).Once()

	m := middleware.NewMiddleware(cfg, stubValidator{}, limiter, nil, testutils.TestLogger(t))
	router := testutils.SetupTestRouter(t)
	router.POST("/login", m.LoginRateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	var headers map[string]string

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/login", nil, headers)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	assert.Equal(t, "1", resp.Header().Get("X-RateLimit-Remaining"))

	resp = testutils.MakeRequest(t, router, http.MethodPost, "/login", nil, headers)
	testutils.RequireHTTPStatus(t, resp, http.StatusTooManyRequests)
	assert.Equal(t, "30", resp.Header().Get("Retry-After"))
	var body envelope
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, middleware.MsgTooManyRequests, body.Error)
	assert.Equal(t, 30, body.RetryAfter)

	// falha do limiter deixa passar
	resp = testutils.MakeRequest(t, router, http.MethodPost, "/login", nil, headers)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	limiter.AssertExpectations(t)
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := new(mocks.MockLimiter)
	m := middleware.NewMiddleware(testutils.TestConfig(), stubValidator{}, limiter, nil, testutils.TestLogger(t))
	router := testutils.SetupTestRouter(t)
	router.POST("/analisis", m.AnalysisRateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		resp := testutils.MakeRequest(t, router, http.MethodPost, "/analisis", nil, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	}
	limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	cfg := testutils.TestConfig()
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	m := middleware.NewMiddleware(cfg, stubValidator{}, nil, nil, testutils.TestLogger(t))

	router := testutils.SetupTestRouter(t)
	router.Use(m.CORS(), m.SecurityHeaders(), m.RequestID())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("preflight", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, http.MethodOptions, "/ping", nil, map[string]string{"Origin": "http://localhost:5173"})
		testutils.RequireHTTPStatus(t, resp, http.StatusNoContent)
		assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, http.MethodGet, "/ping", nil, map[string]string{"Origin": "http://evil.test"})
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)
		assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "DENY", resp.Header().Get("X-Frame-Options"))
		assert.NotEmpty(t, resp.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("request id is propagated", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, http.MethodGet, "/ping", nil, map[string]string{middleware.RequestIDHeader: "req-42"})
		assert.Equal(t, "req-42", resp.Header().Get(middleware.RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	m := middleware.NewMiddleware(testutils.TestConfig(), stubValidator{}, nil, nil, testutils.TestLogger(t))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(m.Recovery(), m.IgnoreFavicon())
	router.GET("/boom", func(c *gin.Context) { panic("falhou") })

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/boom", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusInternalServerError)
	var body envelope
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, apierrors.MsgInternal, body.Error)

	resp = testutils.MakeRequest(t, router, http.MethodGet, "/favicon.ico", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusNoContent)
}
