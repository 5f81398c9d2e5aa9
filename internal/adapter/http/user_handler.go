package http

import (
	"net/http"

	"github.com/diillson/cotizai-api/internal/app/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler administra usuários; todas as rotas exigem admin
type UserHandler struct {
	auth   *auth.AuthService
	logger *zap.Logger
}

func NewUserHandler(authService *auth.AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		auth:   authService,
		logger: logger,
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuarios": users})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var update auth.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	user, err := h.auth.UpdateUser(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Usuário atualizado", zap.Uint("user_id", id))
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.auth.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Usuario eliminado correctamente",
	})
}
