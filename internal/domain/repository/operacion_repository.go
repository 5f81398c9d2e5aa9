package repository

import (
	"context"
	"errors"

	"github.com/diillson/cotizai-api/internal/domain/model"
)

var ErrOperacionNotFound = errors.New("operacion not found")

// OperacionFilter restringe a listagem paginada de operações.
// Area vazia não filtra.
type OperacionFilter struct {
	Area   string
	Offset int
	Limit  int
}

// OperacionRepository define a interface para armazenamento de operações
type OperacionRepository interface {
	// CreateOperacion persiste uma nova operação e preenche o ID gerado
	CreateOperacion(ctx context.Context, op *model.Operacion) error

	// GetOperacionByID obtém uma operação pelo identificador
	GetOperacionByID(ctx context.Context, id uint) (*model.Operacion, error)

	// UpdateOperacion atualiza uma operação existente
	UpdateOperacion(ctx context.Context, op *model.Operacion) error

	// DeleteOperacion remove uma operação pelo ID
	DeleteOperacion(ctx context.Context, id uint) error

	// ListOperaciones retorna a página pedida, ordenada por createdAt desc, e o total filtrado
	ListOperaciones(ctx context.Context, filter OperacionFilter) ([]*model.Operacion, int64, error)

	// ListOperacionesByUserID retorna as operações de um usuário, mais recentes primeiro
	ListOperacionesByUserID(ctx context.Context, userID uint) ([]*model.Operacion, error)

	// DistinctAreas retorna as áreas não vazias distintas
	DistinctAreas(ctx context.Context) ([]string, error)

	// CountOperaciones retorna o total de operações armazenadas
	CountOperaciones(ctx context.Context) (int64, error)
}
