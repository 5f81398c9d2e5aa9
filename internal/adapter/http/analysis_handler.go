package http

import (
	"errors"
	"net/http"

	"github.com/diillson/cotizai-api/internal/app/analyzer"
	"github.com/diillson/cotizai-api/internal/app/generator"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalysisHandler expõe as análises de sites e os geradores de texto.
// As rotas de análise sempre respondem 200; success false indica o relatório de fallback.
type AnalysisHandler struct {
	runner    *analyzer.Runner
	crawler   analyzer.Strategy[analyzer.AnalysisResult]
	structure analyzer.Strategy[analyzer.WebsiteStructure]
	generator *generator.Service
	logger    *zap.Logger
}

func NewAnalysisHandler(
	runner *analyzer.Runner,
	crawler analyzer.Strategy[analyzer.AnalysisResult],
	structure analyzer.Strategy[analyzer.WebsiteStructure],
	gen *generator.Service,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		runner:    runner,
		crawler:   crawler,
		structure: structure,
		generator: gen,
		logger:    logger,
	}
}

type descripcionRequest struct {
	Rubro    string `json:"rubro"`
	Servicio string `json:"servicio"`
}

type tiempoRequest struct {
	TiempoDesarrollo string `json:"tiempoDesarrollo"`
}

type requerimientosRequest struct {
	Requerimientos string `json:"requerimientos"`
	Rubro          string `json:"rubro"`
	Servicio       string `json:"servicio"`
}

// AnalyzeWeb roda o crawler heurístico
func (h *AnalysisHandler) AnalyzeWeb(c *gin.Context) {
	var req analyzer.Request
	h.bind(c, &req)
	writeAnalysis(c, analyzer.Run(c.Request.Context(), h.runner, h.crawler, req))
}

// AnalyzeStructure roda a análise de estrutura com narrativa gerada
func (h *AnalysisHandler) AnalyzeStructure(c *gin.Context) {
	var req analyzer.Request
	h.bind(c, &req)
	writeAnalysis(c, analyzer.Run(c.Request.Context(), h.runner, h.structure, req))
}

// bind lê o corpo sem rejeitar a requisição; campos ausentes levam aos textos padrão
func (h *AnalysisHandler) bind(c *gin.Context, req any) {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Debug("Corpo de análise inválido, usando fallback",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
}

func writeAnalysis[T any](c *gin.Context, result analyzer.Result[T]) {
	body := gin.H{
		"success":   !result.Fallback,
		"data":      result.Data,
		"timestamp": timestamp(),
	}
	var apiErr *apierrors.APIError
	if errors.As(result.Err, &apiErr) {
		body["error"] = apiErr.Message
	}
	c.JSON(http.StatusOK, body)
}

func (h *AnalysisHandler) ProjectDescription(c *gin.Context) {
	var req descripcionRequest
	h.bind(c, &req)
	c.JSON(http.StatusOK, gin.H{
		"descripcion": h.generator.ProjectDescription(c.Request.Context(), req.Rubro, req.Servicio),
	})
}

func (h *AnalysisHandler) ProjectTime(c *gin.Context) {
	var req tiempoRequest
	h.bind(c, &req)
	c.JSON(http.StatusOK, gin.H{
		"tiempoAnalizado": h.generator.AnalyzeProjectTime(c.Request.Context(), req.TiempoDesarrollo),
	})
}

func (h *AnalysisHandler) ImproveRequirements(c *gin.Context) {
	var req requerimientosRequest
	h.bind(c, &req)
	c.JSON(http.StatusOK, gin.H{
		"requerimientosMejorados": h.generator.ImproveRequirements(c.Request.Context(), req.Requerimientos, req.Rubro, req.Servicio),
	})
}
