package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OperacionRepository implementa repository.OperacionRepository com GORM
type OperacionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ repository.OperacionRepository = (*OperacionRepository)(nil)

func NewOperacionRepository(db *gorm.DB, logger *zap.Logger) *OperacionRepository {
	return &OperacionRepository{db: db, logger: logger}
}

func (r *OperacionRepository) CreateOperacion(ctx context.Context, op *model.Operacion) error {
	var entity model.OperacionEntity
	entity.FromOperacion(op)

	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("falha ao criar operação: %w", err)
	}

	op.ID = entity.ID
	op.CreatedAt = entity.CreatedAt
	op.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *OperacionRepository) GetOperacionByID(ctx context.Context, id uint) (*model.Operacion, error) {
	var entity model.OperacionEntity
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOperacionNotFound
		}
		return nil, err
	}
	return entity.ToOperacion(), nil
}

func (r *OperacionRepository) UpdateOperacion(ctx context.Context, op *model.Operacion) error {
	if _, err := r.GetOperacionByID(ctx, op.ID); err != nil {
		return err
	}

	var entity model.OperacionEntity
	entity.FromOperacion(op)

	err := r.db.WithContext(ctx).Model(&model.OperacionEntity{}).
		Where("id = ?", op.ID).
		Updates(map[string]interface{}{
			"nombre":  entity.Nombre,
			"fecha":   entity.Fecha,
			"estado":  entity.Estado,
			"user_id": entity.UserID,
			"area":    entity.Area,
			"data":    entity.Data,
		}).Error
	if err != nil {
		return fmt.Errorf("falha ao atualizar operação: %w", err)
	}
	return nil
}

func (r *OperacionRepository) DeleteOperacion(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.OperacionEntity{}, id)
	if result.Error != nil {
		return fmt.Errorf("falha ao remover operação: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrOperacionNotFound
	}
	return nil
}

func (r *OperacionRepository) ListOperaciones(ctx context.Context, filter repository.OperacionFilter) ([]*model.Operacion, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.OperacionEntity{})
	if filter.Area != "" {
		query = query.Where("area = ?", filter.Area)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("falha ao contar operações: %w", err)
	}

	var entities []model.OperacionEntity
	page := query.Order("created_at DESC").Order("id DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}
	if err := page.Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("falha ao listar operações: %w", err)
	}

	r.logger.Debug("operações listadas",
		zap.String("area", filter.Area),
		zap.Int("offset", filter.Offset),
		zap.Int("limit", filter.Limit),
		zap.Int64("total", total))

	return toOperaciones(entities), total, nil
}

func (r *OperacionRepository) ListOperacionesByUserID(ctx context.Context, userID uint) ([]*model.Operacion, error) {
	var entities []model.OperacionEntity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar operações do usuário: %w", err)
	}
	return toOperaciones(entities), nil
}

func (r *OperacionRepository) DistinctAreas(ctx context.Context) ([]string, error) {
	var areas []string
	err := r.db.WithContext(ctx).Model(&model.OperacionEntity{}).
		Where("area IS NOT NULL AND area <> ''").
		Distinct("area").
		Order("area").
		Pluck("area", &areas).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar áreas: %w", err)
	}
	return areas, nil
}

func (r *OperacionRepository) CountOperaciones(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.OperacionEntity{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("falha ao contar operações: %w", err)
	}
	return total, nil
}

func toOperaciones(entities []model.OperacionEntity) []*model.Operacion {
	ops := make([]*model.Operacion, 0, len(entities))
	for i := range entities {
		ops = append(ops, entities[i].ToOperacion())
	}
	return ops
}
