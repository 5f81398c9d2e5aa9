package logging_test

import (
	"context"
	"testing"

	"github.com/diillson/cotizai-api/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogger_TraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewContextLogger(zap.New(core)).With(zap.String("component", "analyzer"))

	logger.InfoCtx(context.Background(), "sem span")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("teste").Start(context.Background(), "operacao")
	logger.WarnCtx(ctx, "com span")
	span.End()

	entries := logs.All()
	require.Len(t, entries, 2)

	plain := entries[0].ContextMap()
	assert.Equal(t, "analyzer", plain["component"])
	assert.NotContains(t, plain, "trace_id")

	traced := entries[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, span.SpanContext().TraceID().String(), traced["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), traced["span_id"])
}

func TestNewLogger(t *testing.T) {
	logger, err := logging.NewLogger("debug", "console")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	// nível desconhecido cai para info
	logger, err = logging.NewLogger("verboso", "json")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}
