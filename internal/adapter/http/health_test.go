package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	httpadapter "github.com/diillson/cotizai-api/internal/adapter/http"
	"github.com/diillson/cotizai-api/internal/testutils"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthBody struct {
	Status string `json:"status"`
	Checks map[string]struct {
		Status   string `json:"status"`
		Critical bool   `json:"critical"`
		Error    string `json:"error"`
	} `json:"checks"`
	Info map[string]string `json:"info"`
}

func TestHealthChecker(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("conexão recusada") })

	tests := []struct {
		name      string
		db, cache httpadapter.Pinger
		status    int
	}{
		{"all up", ok, ok, http.StatusOK},
		{"cache down is not critical", ok, down, http.StatusOK},
		{"database down", down, ok, http.StatusServiceUnavailable},
		{"memory storage without database", nil, ok, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := httpadapter.NewHealthChecker(tt.db, tt.cache, testutils.TestLogger(t))
			hc.AddInfo("ai_circuit_breaker", func() string { return "CLOSED" })

			router := testutils.SetupTestRouter(t)
			router.GET("/health", hc.DetailedHealth)
			router.GET("/ready", hc.ReadinessCheck)
			router.GET("/live", hc.LivenessCheck)

			resp := testutils.MakeRequest(t, router, http.MethodGet, "/ready", nil, nil)
			testutils.RequireHTTPStatus(t, resp, tt.status)

			resp = testutils.MakeRequest(t, router, http.MethodGet, "/health", nil, nil)
			testutils.RequireHTTPStatus(t, resp, tt.status)
			var body healthBody
			testutils.ParseResponse(t, resp, &body)
			assert.Equal(t, "CLOSED", body.Info["ai_circuit_breaker"])
			if tt.status != http.StatusOK {
				assert.Equal(t, "DOWN", body.Status)
				assert.Equal(t, "conexão recusada", body.Checks["database"].Error)
			}

			resp = testutils.MakeRequest(t, router, http.MethodGet, "/live", nil, nil)
			testutils.RequireHTTPStatus(t, resp, http.StatusOK)
		})
	}
}
