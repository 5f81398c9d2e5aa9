package middleware

import (
	"context"
	"strings"

	"github.com/diillson/cotizai-api/internal/domain/model"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/diillson/cotizai-api/pkg/security"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsKey é a chave das claims do token no contexto do gin
const ClaimsKey = "claims"

// TokenValidator verifica tokens de acesso
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*security.Claims, error)
}

// AuthMiddleware gerencia middlewares de autenticação
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware cria uma nova instância do middleware de autenticação
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Authenticate exige um bearer token válido e guarda as claims no contexto
func (m *AuthMiddleware) Authenticate(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if authHeader == "" || tokenString == "" || tokenString == authHeader {
		abortWithError(c, apierrors.NewUnauthorizedError(apierrors.MsgTokenRequired, nil))
		return
	}

	claims, err := m.validator.ValidateToken(c.Request.Context(), tokenString)
	if err != nil {
		m.logger.Debug("token rejeitado", zap.String("path", c.Request.URL.Path), zap.Error(err))
		abortWithError(c, apierrors.NewUnauthorizedError(apierrors.MsgTokenInvalid, err))
		return
	}

	c.Set(ClaimsKey, claims)
	c.Next()
}

// RequireAdmin deve rodar depois de Authenticate
func (m *AuthMiddleware) RequireAdmin(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		abortWithError(c, apierrors.NewUnauthorizedError(apierrors.MsgTokenRequired, nil))
		return
	}

	if claims.Rol != string(model.RolAdmin) {
		m.logger.Warn("acesso administrativo negado",
			zap.String("username", claims.Username),
			zap.String("path", c.Request.URL.Path))
		abortWithError(c, apierrors.NewForbiddenError(apierrors.MsgAdminRequired, nil))
		return
	}

	c.Next()
}

// ClaimsFromContext recupera as claims gravadas por Authenticate
func ClaimsFromContext(c *gin.Context) (*security.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*security.Claims)
	return claims, ok && claims != nil
}

func abortWithError(c *gin.Context, err *apierrors.APIError) {
	c.AbortWithStatusJSON(err.Code, gin.H{
		"success": false,
		"error":   err.Message,
	})
}
