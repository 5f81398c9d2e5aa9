// Package http expõe os serviços do CotizAI como rotas JSON do gin.
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diillson/cotizai-api/internal/infra/middleware"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/diillson/cotizai-api/pkg/security"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MsgInvalidBody é devolvida quando o corpo não é um JSON aceitável
const MsgInvalidBody = "Datos inválidos"

// respondError escreve o envelope de erro. Mensagens de 500 nunca expõem o erro interno.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	apiErr := apierrors.AsAPIError(err)
	if apiErr.Code >= http.StatusInternalServerError {
		logger.Error("falha ao processar requisição",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Code, gin.H{
		"success": false,
		"error":   apiErr.Message,
	})
}

func respondBadRequest(c *gin.Context, logger *zap.Logger, err error) {
	respondError(c, logger, apierrors.NewBadRequestError(MsgInvalidBody, err))
}

// claimsOrAbort devolve as claims do token; sem elas a requisição termina em 401
func claimsOrAbort(c *gin.Context, logger *zap.Logger) (*security.Claims, uint, bool) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respondError(c, logger, apierrors.NewUnauthorizedError(apierrors.MsgTokenRequired, nil))
		return nil, 0, false
	}
	userID, err := claims.UserID()
	if err != nil {
		respondError(c, logger, apierrors.NewUnauthorizedError(apierrors.MsgTokenInvalid, err))
		return nil, 0, false
	}
	return claims, userID, true
}

// pathID lê o parâmetro :id; valores não numéricos viram 400
func pathID(c *gin.Context, logger *zap.Logger) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, logger, apierrors.NewBadRequestError("ID inválido", err))
		return 0, false
	}
	return uint(id), true
}

// queryInt lê um inteiro da query; ausente ou inválido vira 0
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
