package gemini_test

import (
	"context"
	"testing"

	"github.com/diillson/cotizai-api/internal/adapter/gemini"
	"github.com/diillson/cotizai-api/internal/domain/service"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestNewClient_Disabled(t *testing.T) {
	tests := map[string]config.AIConfig{
		"disabled":    {Enabled: false, APIKey: "chave"},
		"without key": {Enabled: true, APIKey: "   "},
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			client, err := gemini.NewClient(context.Background(), cfg, zaptest.NewLogger(t), nil)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, service.ErrGeneratorDisabled)
		})
	}
}

func TestDisabledGenerator(t *testing.T) {
	text, err := service.DisabledGenerator{}.Generate(context.Background(), "qualquer prompt")
	assert.Empty(t, text)
	assert.ErrorIs(t, err, service.ErrGeneratorDisabled)
}
