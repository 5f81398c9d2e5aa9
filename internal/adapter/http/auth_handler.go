package http

import (
	"net/http"

	"github.com/diillson/cotizai-api/internal/app/auth"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler expõe login, cadastro e sessão
type AuthHandler struct {
	auth   *auth.AuthService
	logger *zap.Logger
}

func NewAuthHandler(authService *auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Area     string `json:"area"`
}

// Login troca credenciais por um token. A área enviada vale para a sessão.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	resp, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password, req.Area)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register cria um usuário
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apierrors.NewBadRequestError("username y password son obligatorios", err))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Logout revoga o token usado na requisição
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, _, ok := claimsOrAbort(c, h.logger)
	if !ok {
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Profile devolve o usuário do token
func (h *AuthHandler) Profile(c *gin.Context) {
	_, userID, ok := claimsOrAbort(c, h.logger)
	if !ok {
		return
	}

	user, err := h.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if user == nil {
		respondError(c, h.logger, apierrors.NewNotFoundError("Usuario no encontrado", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Validate confirma o token e ecoa as claims
func (h *AuthHandler) Validate(c *gin.Context) {
	claims, userID, ok := claimsOrAbort(c, h.logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"id":       userID,
			"username": claims.Username,
			"rol":      claims.Rol,
			"area":     claims.Area,
		},
	})
}
