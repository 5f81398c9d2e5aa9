package mocks

import (
	"context"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/webpage"
	"github.com/diillson/cotizai-api/pkg/ratelimit"
	"github.com/stretchr/testify/mock"
)

// MockTextGenerator é um mock para a interface TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockFetcher é um mock para a interface Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*webpage.Document, error) {
	args := m.Called(ctx, rawURL, timeout)
	doc, _ := args.Get(0).(*webpage.Document)
	return doc, args.Error(1)
}

// MockLimiter é um mock para a interface Limiter
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, config ratelimit.LimitConfig) (ratelimit.Result, error) {
	args := m.Called(ctx, config)
	return args.Get(0).(ratelimit.Result), args.Error(1)
}
