// Package gemini implementa o gerador de texto sobre a API Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/internal/domain/service"
	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/resilience"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrEmptyResponse indica que o modelo respondeu sem texto
var ErrEmptyResponse = errors.New("resposta vazia do modelo")

// Client chama o modelo generativo configurado
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	content *genai.GenerateContentConfig
	breaker *resilience.CircuitBreaker
	logger  *zap.Logger
	metrics *metrics.APIMetrics
	tracer  trace.Tracer
}

var _ service.TextGenerator = (*Client)(nil)

// NewClient cria o cliente. Sem chave de API retorna service.ErrGeneratorDisabled.
func NewClient(ctx context.Context, cfg config.AIConfig, logger *zap.Logger, m *metrics.APIMetrics) (*Client, error) {
	if !cfg.Enabled || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, service.ErrGeneratorDisabled
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cliente Gemini: %w", err)
	}

	c := &Client{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		content: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(cfg.Temperature)),
			TopK:            genai.Ptr(float32(cfg.TopK)),
			TopP:            genai.Ptr(float32(cfg.TopP)),
			MaxOutputTokens: int32(cfg.MaxOutputTokens),
		},
		logger:  logger,
		metrics: m,
		tracer:  otel.GetTracerProvider().Tracer("cotizai.gemini"),
	}

	if cfg.CircuitBreaker.Enabled {
		c.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:            "gemini",
			MaxRequestsFail: cfg.CircuitBreaker.FailureThreshold,
			Timeout:         cfg.CircuitBreaker.ResetTimeout,
			MaxRequests:     cfg.CircuitBreaker.HalfOpenRequests,
		}, logger, m)
	}

	logger.Info("Cliente Gemini inicializado", zap.String("model", cfg.Model))
	return c, nil
}

// Generate envia o prompt ao modelo. Não há novas tentativas: o chamador decide o fallback.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "Gemini.Generate", trace.WithAttributes(
		attribute.String("ai.model", c.model),
		attribute.Int("ai.prompt_chars", len(prompt)),
	))
	defer span.End()

	var (
		text string
		err  error
	)
	if c.breaker != nil {
		text, err = resilience.Execute(ctx, c.breaker, func(ctx context.Context) (string, error) {
			return c.generate(ctx, prompt)
		})
	} else {
		text, err = c.generate(ctx, prompt)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failure")
		c.logger.Warn("falha na chamada ao Gemini", zap.String("model", c.model), zap.Error(err))
		return "", err
	}

	span.SetAttributes(attribute.Int("ai.response_chars", len(text)))
	span.SetStatus(codes.Ok, "")
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.content)
	if err != nil {
		return "", fmt.Errorf("Gemini GenerateContent: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// BreakerState expõe o estado do disjuntor para o health check
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return resilience.StateClosed.String()
	}
	return c.breaker.State().String()
}
