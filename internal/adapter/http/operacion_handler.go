package http

import (
	"encoding/json"
	"net/http"

	"github.com/diillson/cotizai-api/internal/app/operacion"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OperacionHandler expõe o armazenamento de operações
type OperacionHandler struct {
	service *operacion.Service
	logger  *zap.Logger
}

func NewOperacionHandler(service *operacion.Service, logger *zap.Logger) *OperacionHandler {
	return &OperacionHandler{
		service: service,
		logger:  logger,
	}
}

type cotizacionRequest struct {
	Nombre string          `json:"nombre"`
	Data   json.RawMessage `json:"data"`
}

type estadoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

// ListOperaciones pagina as operações. Query: pagina, porPagina, area.
func (h *OperacionHandler) ListOperaciones(c *gin.Context) {
	_, userID, ok := claimsOrAbort(c, h.logger)
	if !ok {
		return
	}

	page, err := h.service.GetOperacionesConPaginacion(c.Request.Context(),
		userID,
		queryInt(c, "pagina"),
		queryInt(c, "porPagina"),
		c.DefaultQuery("area", operacion.AreaTodas))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Areas lista as áreas disponíveis para o filtro
func (h *OperacionHandler) Areas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"areas": h.service.GetAreasUnicas(c.Request.Context())})
}

// GuardarCotizacion salva a cotização em nome do usuário e da área do token
func (h *OperacionHandler) GuardarCotizacion(c *gin.Context) {
	claims, userID, ok := claimsOrAbort(c, h.logger)
	if !ok {
		return
	}

	var req cotizacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	op, err := h.service.CreateCotizacion(c.Request.Context(), req.Nombre, req.Data, userID, claims.Area)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "operacion": op})
}

// CreateOperacion cria uma operação. userId e area padrão vêm do token.
func (h *OperacionHandler) CreateOperacion(c *gin.Context) {
	claims, userID, ok := claimsOrAbort(c, h.logger)
	if !ok {
		return
	}

	var in operacion.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	if in.UserID == 0 {
		in.UserID = userID
	}
	if in.Area == "" {
		in.Area = claims.Area
	}

	op, err := h.service.CreateOperacion(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "operacion": op})
}

func (h *OperacionHandler) GetOperacion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	op, err := h.service.GetOperacionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "operacion": op})
}

func (h *OperacionHandler) UpdateOperacion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var in operacion.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	op, err := h.service.UpdateOperacion(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "operacion": op})
}

// UpdateEstado aceita também os estados legados
func (h *OperacionHandler) UpdateEstado(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var req estadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	op, err := h.service.UpdateOperacionEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "operacion": op})
}

func (h *OperacionHandler) DeleteOperacion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.service.DeleteOperacion(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Operación eliminada correctamente",
	})
}
