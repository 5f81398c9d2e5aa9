package mocks

import (
	"context"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository é um mock para a interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*model.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOperacionRepository é um mock para a interface OperacionRepository
type MockOperacionRepository struct {
	mock.Mock
}

func (m *MockOperacionRepository) CreateOperacion(ctx context.Context, op *model.Operacion) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperacionRepository) GetOperacionByID(ctx context.Context, id uint) (*model.Operacion, error) {
	args := m.Called(ctx, id)
	op, _ := args.Get(0).(*model.Operacion)
	return op, args.Error(1)
}

func (m *MockOperacionRepository) UpdateOperacion(ctx context.Context, op *model.Operacion) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperacionRepository) DeleteOperacion(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperacionRepository) ListOperaciones(ctx context.Context, filter repository.OperacionFilter) ([]*model.Operacion, int64, error) {
	args := m.Called(ctx, filter)
	ops, _ := args.Get(0).([]*model.Operacion)
	return ops, args.Get(1).(int64), args.Error(2)
}

func (m *MockOperacionRepository) ListOperacionesByUserID(ctx context.Context, userID uint) ([]*model.Operacion, error) {
	args := m.Called(ctx, userID)
	ops, _ := args.Get(0).([]*model.Operacion)
	return ops, args.Error(1)
}

func (m *MockOperacionRepository) DistinctAreas(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	areas, _ := args.Get(0).([]string)
	return areas, args.Error(1)
}

func (m *MockOperacionRepository) CountOperaciones(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
