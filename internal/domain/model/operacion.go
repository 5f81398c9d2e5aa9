package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Estado é o estado de revisão de uma operação
type Estado string

const (
	EstadoEnRevision  Estado = "en_revision"
	EstadoAprobado    Estado = "aprobado"
	EstadoDesestimado Estado = "desestimado"
)

// ErrEstadoInvalido é retornado quando o estado não pertence ao conjunto conhecido
var ErrEstadoInvalido = errors.New("estado de operación inválido")

// legacyEstados mapeia o antigo enum de quatro estados para o atual
var legacyEstados = map[string]Estado{
	"pendiente":  EstadoEnRevision,
	"en_proceso": EstadoEnRevision,
	"completada": EstadoAprobado,
	"cancelada":  EstadoDesestimado,
}

// Estados retorna os estados válidos na ordem de exibição
func Estados() []Estado {
	return []Estado{EstadoEnRevision, EstadoAprobado, EstadoDesestimado}
}

// ParseEstado aceita os estados atuais e os legados, sempre retornando um estado atual
func ParseEstado(value string) (Estado, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch Estado(v) {
	case EstadoEnRevision, EstadoAprobado, EstadoDesestimado:
		return Estado(v), nil
	}
	if mapped, ok := legacyEstados[v]; ok {
		return mapped, nil
	}
	return "", fmt.Errorf("%w: %q", ErrEstadoInvalido, value)
}

// Operacion representa uma cotização registrada
type Operacion struct {
	ID        uint            `json:"id"`
	Nombre    string          `json:"nombre"`
	Fecha     time.Time       `json:"fecha"`
	Estado    Estado          `json:"estado"`
	UserID    uint            `json:"userId"`
	Area      string          `json:"area"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Validate verifica se a operação pode ser persistida
func (o *Operacion) Validate() error {
	if strings.TrimSpace(o.Nombre) == "" {
		return errors.New("nombre es obligatorio")
	}
	if _, err := ParseEstado(string(o.Estado)); err != nil {
		return err
	}
	if len(o.Data) > 0 && !json.Valid(o.Data) {
		return errors.New("data debe ser un JSON válido")
	}
	return nil
}

// OperacionEntity é a representação de banco de dados de uma operação
type OperacionEntity struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	Nombre    string         `gorm:"size:255;not null"`
	Fecha     time.Time      `gorm:"not null"`
	Estado    string         `gorm:"size:20;not null;default:en_revision;index"`
	UserID    uint           `gorm:"not null;index"`
	Area      string         `gorm:"size:255;index"`
	Data      datatypes.JSON
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

// TableName define o nome da tabela
func (OperacionEntity) TableName() string {
	return "operaciones"
}

// ToOperacion converte a entidade em modelo de domínio
func (e *OperacionEntity) ToOperacion() *Operacion {
	op := &Operacion{
		ID:        e.ID,
		Nombre:    e.Nombre,
		Fecha:     e.Fecha,
		Estado:    Estado(e.Estado),
		UserID:    e.UserID,
		Area:      e.Area,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if len(e.Data) > 0 {
		op.Data = json.RawMessage(e.Data)
	}
	return op
}

// FromOperacion preenche a entidade a partir do modelo de domínio
func (e *OperacionEntity) FromOperacion(o *Operacion) {
	e.ID = o.ID
	e.Nombre = o.Nombre
	e.Fecha = o.Fecha
	e.Estado = string(o.Estado)
	e.UserID = o.UserID
	e.Area = o.Area
	e.Data = datatypes.JSON(o.Data)
	e.CreatedAt = o.CreatedAt
	e.UpdatedAt = o.UpdatedAt
}
