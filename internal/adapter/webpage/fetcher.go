// Package webpage busca e interpreta as páginas analisadas.
package webpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultUserAgent imita um navegador de desktop
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultMaxBodyBytes limita o corpo lido de cada página
const DefaultMaxBodyBytes int64 = 2 << 20

// ErrUnexpectedStatus indica uma resposta fora da faixa 2xx
var ErrUnexpectedStatus = errors.New("status HTTP inesperado")

// Fetcher busca páginas e devolve o documento parseado
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Document, error)
}

// HTTPFetcherConfig configura o HTTPFetcher
type HTTPFetcherConfig struct {
	UserAgent    string
	MaxBodyBytes int64
}

// HTTPFetcher busca páginas pela rede
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	logger    *zap.Logger
	metrics   *metrics.APIMetrics
	tracer    trace.Tracer
}

// NewHTTPFetcher cria um fetcher instrumentado com OpenTelemetry
func NewHTTPFetcher(cfg HTTPFetcherConfig, logger *zap.Logger, m *metrics.APIMetrics) *HTTPFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		logger:    logger,
		metrics:   m,
		tracer:    otel.GetTracerProvider().Tracer("cotizai.webpage"),
	}
}

// NormalizeURL prefixa https:// quando a URL não traz esquema
func NormalizeURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

// Fetch busca a página com o timeout informado. Corpos maiores que o limite são truncados.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Document, error) {
	target := NormalizeURL(rawURL)

	ctx, span := f.tracer.Start(ctx, "HTTPFetcher.Fetch", trace.WithAttributes(
		attribute.String("page.url", target),
		attribute.Int64("page.timeout_ms", timeout.Milliseconds()),
	))
	defer span.End()

	start := time.Now()
	doc, err := f.fetch(ctx, target, timeout)
	f.metrics.PageFetched(time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failure")
		f.logger.Warn("falha ao buscar página",
			zap.String("url", target),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return doc, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, target string, timeout time.Duration) (*Document, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("URL inválida %q: %w", target, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha na requisição: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("falha ao ler corpo: %w", err)
	}

	return Parse(target, body)
}
