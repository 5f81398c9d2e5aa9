package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository implementa repository.UserRepository com GORM
type UserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var entity model.UserEntity
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		r.logger.Error("erro ao buscar usuário",
			zap.String("username", username),
			zap.String("dialect", r.db.Dialector.Name()),
			zap.Error(err))
		return nil, err
	}
	return entity.ToUser(), nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var entity model.UserEntity
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return entity.ToUser(), nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	var entities []model.UserEntity
	if err := r.db.WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("falha ao listar usuários: %w", err)
	}

	users := make([]*model.User, 0, len(entities))
	for i := range entities {
		users = append(users, entities[i].ToUser())
	}
	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UserEntity{}).
		Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("falha ao verificar usuário existente: %w", err)
	}
	if count > 0 {
		return repository.ErrUserExists
	}

	var entity model.UserEntity
	entity.FromUser(user)

	result := r.db.WithContext(ctx).Create(&entity)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return repository.ErrUserExists
		}
		return fmt.Errorf("falha ao criar usuário: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("nenhum registro criado")
	}

	user.ID = entity.ID
	user.CreatedAt = entity.CreatedAt
	user.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	if _, err := r.GetUserByID(ctx, user.ID); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&model.UserEntity{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"nombre":   user.Nombre,
			"username": user.Username,
			"password": user.Password,
			"rol":      string(user.Rol),
			"area":     user.Area,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return repository.ErrUserExists
		}
		return fmt.Errorf("falha ao atualizar usuário: %w", result.Error)
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.UserEntity{}, id)
	if result.Error != nil {
		return fmt.Errorf("falha ao remover usuário: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// DiagnoseUser monta um relatório textual sobre o registro de um usuário
func (r *UserRepository) DiagnoseUser(ctx context.Context, username string) (string, error) {
	var entity model.UserEntity
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&entity).Error; err != nil {
		return "", fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	return fmt.Sprintf(
		"Diagnóstico para usuário: %s\n"+
			"----------------------------\n"+
			"ID: %d\n"+
			"Tipo de banco: %s\n"+
			"Tamanho do hash de senha: %d\n"+
			"Nombre: %s\n"+
			"Rol: %s\n"+
			"Area: %s\n"+
			"CreatedAt: %v\n",
		username,
		entity.ID,
		r.db.Dialector.Name(),
		len(entity.Password),
		entity.Nombre,
		entity.Rol,
		entity.Area,
		entity.CreatedAt,
	), nil
}

// isUniqueViolation reconhece violações de índice único nos três dialetos suportados
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
