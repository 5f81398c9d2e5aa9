package telemetry_test

import (
	"context"
	"testing"

	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider(t *testing.T) {
	ctx := context.Background()

	// a conexão gRPC é preguiçosa; nenhum span é exportado aqui
	tp, err := telemetry.NewTracerProvider(ctx, config.TracingConfig{
		Enabled:     true,
		Endpoint:    "127.0.0.1:4317",
		ServiceName: "cotizai-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer tp.Shutdown(ctx)

	assert.NotNil(t, tp.Tracer("cotizai.test"))
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}
