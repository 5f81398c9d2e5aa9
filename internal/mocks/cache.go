package mocks

import (
	"context"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/pkg/cache"
	"github.com/stretchr/testify/mock"
)

var _ cache.Cache = (*MockCache)(nil)

// MockCache é um mock para a interface Cache.
// O terceiro retorno de Get, quando é func(interface{}), preenche dest.
type MockCache struct {
	mock.Mock
}

// OnRevocationLookup espera a consulta de revogação de qualquer jti
func (m *MockCache) OnRevocationLookup(revoked bool, err error) *mock.Call {
	isRevocationKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, cache.RevokedTokenKey(""))
	})
	return m.On("Get", mock.Anything, isRevocationKey, mock.Anything).Return(revoked, err, nil)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	if fill, ok := args.Get(2).(func(interface{})); ok && fill != nil {
		fill(dest)
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
