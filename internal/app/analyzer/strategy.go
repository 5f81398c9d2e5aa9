// Package analyzer avalia sites de clientes contra o catálogo de seções do rubro.
package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/webpage"
	"github.com/diillson/cotizai-api/internal/infra/metrics"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/diillson/cotizai-api/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Scored é um relatório com pontuação de 0 a 100
type Scored interface {
	Rating() int
}

// Strategy analisa um documento já buscado e sabe produzir o seu relatório de fallback
type Strategy[T Scored] interface {
	Name() string
	Timeout() time.Duration
	Analyze(ctx context.Context, doc *webpage.Document, req Request) (T, error)
	Fallback(req Request) T
}

// Result carrega o relatório e, quando Fallback é true, o erro que o provocou
type Result[T any] struct {
	Data     T
	Fallback bool
	Err      error
}

// Runner busca a página uma única vez e entrega o documento à estratégia
type Runner struct {
	fetcher webpage.Fetcher
	logger  *logging.ContextLogger
	metrics *metrics.APIMetrics
	tracer  trace.Tracer
}

// NewRunner cria um Runner
func NewRunner(fetcher webpage.Fetcher, logger *zap.Logger, m *metrics.APIMetrics) *Runner {
	return &Runner{
		fetcher: fetcher,
		logger:  logging.NewContextLogger(logger),
		metrics: m,
		tracer:  otel.GetTracerProvider().Tracer("cotizai.analyzer"),
	}
}

// MsgURLRequired acompanha o fallback quando a requisição não traz URL
const MsgURLRequired = "url es obligatoria"

// Run executa a estratégia. URL vazia, falha na busca ou na análise degradam para s.Fallback.
func Run[T Scored](ctx context.Context, r *Runner, s Strategy[T], req Request) Result[T] {
	ctx, span := r.tracer.Start(ctx, "analyzer.Run", trace.WithAttributes(
		attribute.String("analyzer.strategy", s.Name()),
		attribute.String("analyzer.rubro", req.Rubro),
		attribute.String("analyzer.servicio", req.Servicio),
	))
	defer span.End()

	fail := func(stage string, err error) Result[T] {
		span.RecordError(err)
		span.SetStatus(codes.Error, stage+" failure")
		r.logger.WarnCtx(ctx, "análise degradada para fallback",
			zap.String("strategy", s.Name()),
			zap.String("stage", stage),
			zap.String("url", req.URL),
			zap.Error(err))
		r.metrics.AnalysisCompleted(s.Name(), true, 0)
		return Result[T]{Data: s.Fallback(req), Fallback: true, Err: err}
	}

	if strings.TrimSpace(req.URL) == "" {
		return fail("fetch", apierrors.NewBadRequestError(MsgURLRequired, nil))
	}

	doc, err := r.fetcher.Fetch(ctx, req.URL, s.Timeout())
	if err != nil {
		return fail("fetch", err)
	}

	data, err := s.Analyze(ctx, doc, req)
	if err != nil {
		return fail("analyze", err)
	}

	span.SetAttributes(attribute.Int("analyzer.score", data.Rating()))
	span.SetStatus(codes.Ok, "")
	r.metrics.AnalysisCompleted(s.Name(), false, data.Rating())
	r.logger.InfoCtx(ctx, "análise concluída",
		zap.String("strategy", s.Name()),
		zap.String("url", doc.URL),
		zap.Int("score", data.Rating()))

	return Result[T]{Data: data}
}
