package operacion

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"github.com/diillson/cotizai-api/internal/infra/metrics"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"go.uber.org/zap"
)

const (
	// AreaTodas desativa o filtro por área
	AreaTodas = "todas"
	// DefaultPorPagina é usado quando porPagina < 1
	DefaultPorPagina = 9
	// MaxPorPagina limita o tamanho da página
	MaxPorPagina = 100
)

// MsgNotFound é a mensagem devolvida para IDs inexistentes
const MsgNotFound = "Operación no encontrada"

// DefaultAreas é devolvida quando não há áreas cadastradas
var DefaultAreas = []string{"Comercial", "Marketing", "TI", "Administración", "Medios"}

// CreateInput são os campos aceitos na criação de uma operação
type CreateInput struct {
	Nombre string          `json:"nombre"`
	Fecha  *time.Time      `json:"fecha"`
	Estado string          `json:"estado"`
	UserID uint            `json:"userId"`
	Area   string          `json:"area"`
	Data   json.RawMessage `json:"data"`
}

// UpdateInput é uma atualização parcial; campos nil não mudam
type UpdateInput struct {
	Nombre *string         `json:"nombre"`
	Fecha  *time.Time      `json:"fecha"`
	Estado *string         `json:"estado"`
	UserID *uint           `json:"userId"`
	Area   *string         `json:"area"`
	Data   json.RawMessage `json:"data"`
}

// Page é o resultado da listagem paginada
type Page struct {
	Operaciones      []*model.Operacion `json:"operaciones"`
	TotalOperaciones int64              `json:"totalOperaciones"`
	TotalPaginas     int                `json:"totalPaginas"`
	PaginaActual     int                `json:"paginaActual"`
}

// Service implementa as regras do armazenamento de operações
type Service struct {
	repo    repository.OperacionRepository
	logger  *zap.Logger
	metrics *metrics.APIMetrics
	now     func() time.Time
}

func NewService(repo repository.OperacionRepository, logger *zap.Logger, m *metrics.APIMetrics) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// CreateOperacion cria uma operação. Estado vazio vira en_revision e fecha vazia vira agora.
func (s *Service) CreateOperacion(ctx context.Context, in CreateInput) (*model.Operacion, error) {
	estado := model.EstadoEnRevision
	if strings.TrimSpace(in.Estado) != "" {
		parsed, err := model.ParseEstado(in.Estado)
		if err != nil {
			return nil, apierrors.NewBadRequestError(err.Error(), err)
		}
		estado = parsed
	}

	fecha := s.now()
	if in.Fecha != nil && !in.Fecha.IsZero() {
		fecha = *in.Fecha
	}

	op := &model.Operacion{
		Nombre: strings.TrimSpace(in.Nombre),
		Fecha:  fecha,
		Estado: estado,
		UserID: in.UserID,
		Area:   in.Area,
		Data:   normalizeData(in.Data),
	}
	return s.create(ctx, op, "create")
}

// CreateCotizacion salva uma cotização sempre em revisão e com a data atual
func (s *Service) CreateCotizacion(ctx context.Context, nombre string, data json.RawMessage, userID uint, area string) (*model.Operacion, error) {
	op := &model.Operacion{
		Nombre: strings.TrimSpace(nombre),
		Fecha:  s.now(),
		Estado: model.EstadoEnRevision,
		UserID: userID,
		Area:   area,
		Data:   normalizeData(data),
	}
	return s.create(ctx, op, "cotizacion")
}

func (s *Service) create(ctx context.Context, op *model.Operacion, kind string) (*model.Operacion, error) {
	if err := op.Validate(); err != nil {
		return nil, apierrors.NewBadRequestError(err.Error(), err)
	}
	if err := s.repo.CreateOperacion(ctx, op); err != nil {
		s.logger.Error("Falha ao criar operação", zap.String("nombre", op.Nombre), zap.Error(err))
		return nil, apierrors.NewInternalServerError("", err)
	}

	s.metrics.OperacionMutated(kind)
	s.logger.Info("Operação criada",
		zap.Uint("id", op.ID),
		zap.Uint("user_id", op.UserID),
		zap.String("area", op.Area))
	return op, nil
}

// GetOperacionByID busca uma operação; ausência vira 404
func (s *Service) GetOperacionByID(ctx context.Context, id uint) (*model.Operacion, error) {
	op, err := s.repo.GetOperacionByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return op, nil
}

// UpdateOperacion aplica a atualização parcial
func (s *Service) UpdateOperacion(ctx context.Context, id uint, in UpdateInput) (*model.Operacion, error) {
	op, err := s.repo.GetOperacionByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	if in.Nombre != nil {
		op.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Fecha != nil && !in.Fecha.IsZero() {
		op.Fecha = *in.Fecha
	}
	if in.Estado != nil {
		estado, err := model.ParseEstado(*in.Estado)
		if err != nil {
			return nil, apierrors.NewBadRequestError(err.Error(), err)
		}
		op.Estado = estado
	}
	if in.UserID != nil {
		op.UserID = *in.UserID
	}
	if in.Area != nil {
		op.Area = *in.Area
	}
	if in.Data != nil {
		op.Data = normalizeData(in.Data)
	}

	return s.update(ctx, op, "update")
}

// UpdateOperacionEstado muda apenas o estado, aceitando os valores legados
func (s *Service) UpdateOperacionEstado(ctx context.Context, id uint, estado string) (*model.Operacion, error) {
	parsed, err := model.ParseEstado(estado)
	if err != nil {
		return nil, apierrors.NewBadRequestError(err.Error(), err)
	}

	op, err := s.repo.GetOperacionByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	op.Estado = parsed
	return s.update(ctx, op, "estado")
}

func (s *Service) update(ctx context.Context, op *model.Operacion, kind string) (*model.Operacion, error) {
	if err := op.Validate(); err != nil {
		return nil, apierrors.NewBadRequestError(err.Error(), err)
	}
	if err := s.repo.UpdateOperacion(ctx, op); err != nil {
		return nil, s.mapError(err)
	}
	s.metrics.OperacionMutated(kind)

	updated, err := s.repo.GetOperacionByID(ctx, op.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return updated, nil
}

// DeleteOperacion remove a operação; ausência vira 404
func (s *Service) DeleteOperacion(ctx context.Context, id uint) error {
	if err := s.repo.DeleteOperacion(ctx, id); err != nil {
		return s.mapError(err)
	}
	s.metrics.OperacionMutated("delete")
	s.logger.Info("Operação removida", zap.Uint("id", id))
	return nil
}

// GetOperacionesConPaginacion lista as operações mais recentes primeiro.
// pagina < 1 vira 1, porPagina < 1 vira 9 e porPagina acima de 100 vira 100.
// Área vazia ou "todas" não filtra.
func (s *Service) GetOperacionesConPaginacion(ctx context.Context, userID uint, pagina, porPagina int, area string) (*Page, error) {
	if pagina < 1 {
		pagina = 1
	}
	if porPagina < 1 {
		porPagina = DefaultPorPagina
	}
	if porPagina > MaxPorPagina {
		porPagina = MaxPorPagina
	}

	// offset que não cabe em int aponta para depois da última operação
	offset := math.MaxInt
	if pagina-1 <= math.MaxInt/porPagina {
		offset = (pagina - 1) * porPagina
	}

	filter := repository.OperacionFilter{
		Offset: offset,
		Limit:  porPagina,
	}
	if a := strings.TrimSpace(area); a != "" && !strings.EqualFold(a, AreaTodas) {
		filter.Area = a
	}

	ops, total, err := s.repo.ListOperaciones(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar operações", zap.Error(err))
		return nil, apierrors.NewInternalServerError("", err)
	}

	s.logger.Debug("Operações listadas",
		zap.Uint("user_id", userID),
		zap.Int("pagina", pagina),
		zap.Int("por_pagina", porPagina),
		zap.String("area", filter.Area),
		zap.Int64("total", total))

	if ops == nil {
		ops = []*model.Operacion{}
	}
	return &Page{
		Operaciones:      ops,
		TotalOperaciones: total,
		TotalPaginas:     int(math.Ceil(float64(total) / float64(porPagina))),
		PaginaActual:     pagina,
	}, nil
}

// GetOperacionesByUserID lista as operações de um usuário
func (s *Service) GetOperacionesByUserID(ctx context.Context, userID uint) ([]*model.Operacion, error) {
	ops, err := s.repo.ListOperacionesByUserID(ctx, userID)
	if err != nil {
		return nil, apierrors.NewInternalServerError("", err)
	}
	return ops, nil
}

// GetAreasUnicas retorna as áreas distintas ordenadas, ou a lista padrão
func (s *Service) GetAreasUnicas(ctx context.Context) []string {
	areas, err := s.repo.DistinctAreas(ctx)
	if err != nil {
		s.logger.Warn("Falha ao buscar áreas, usando lista padrão", zap.Error(err))
		return append([]string(nil), DefaultAreas...)
	}
	if len(areas) == 0 {
		return append([]string(nil), DefaultAreas...)
	}
	return areas
}

func (s *Service) mapError(err error) error {
	if errors.Is(err, repository.ErrOperacionNotFound) {
		return apierrors.NewNotFoundError(MsgNotFound, err)
	}
	return apierrors.NewInternalServerError("", err)
}

// normalizeData trata o literal null como ausência de dados
func normalizeData(data json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return json.RawMessage(trimmed)
}
