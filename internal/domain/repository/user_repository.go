package repository

import (
	"context"
	"errors"

	"github.com/diillson/cotizai-api/internal/domain/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserRepository define a interface para armazenamento de usuários
type UserRepository interface {
	// GetUserByUsername obtém um usuário, incluindo o hash da senha
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// GetUserByID obtém um usuário pelo identificador
	GetUserByID(ctx context.Context, id uint) (*model.User, error)

	// ListUsers retorna todos os usuários ordenados por ID
	ListUsers(ctx context.Context) ([]*model.User, error)

	// CreateUser persiste um novo usuário e preenche o ID gerado
	CreateUser(ctx context.Context, user *model.User) error

	// UpdateUser atualiza um usuário existente
	UpdateUser(ctx context.Context, user *model.User) error

	// DeleteUser remove um usuário pelo ID
	DeleteUser(ctx context.Context, id uint) error
}
