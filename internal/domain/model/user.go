package model

import (
	"strings"
	"time"
)

// Rol identifica o perfil de acesso de um usuário
type Rol string

const (
	RolAdmin     Rol = "admin"
	RolCotizador Rol = "cotizador"
)

// ParseRol converte o valor recebido em um Rol conhecido. Vazio vira cotizador.
func ParseRol(value string) (Rol, bool) {
	switch Rol(strings.TrimSpace(value)) {
	case "":
		return RolCotizador, true
	case RolAdmin:
		return RolAdmin, true
	case RolCotizador:
		return RolCotizador, true
	}
	return "", false
}

// User representa um usuário do sistema.
// Password guarda o hash bcrypt e nunca é serializado.
type User struct {
	ID        uint      `json:"id"`
	Nombre    string    `json:"nombre"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Rol       Rol       `json:"rol"`
	Area      string    `json:"area"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public retorna uma cópia do usuário sem o hash de senha
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Password = ""
	return &clone
}

// IsAdmin indica se o usuário possui perfil de administrador
func (u *User) IsAdmin() bool {
	return u != nil && u.Rol == RolAdmin
}

// UserEntity é a representação de banco de dados de um usuário
type UserEntity struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Nombre    string    `gorm:"size:255;not null"`
	Username  string    `gorm:"uniqueIndex;size:100;not null"`
	Password  string    `gorm:"size:255;not null"`
	Rol       string    `gorm:"size:20;not null;default:cotizador"`
	Area      string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName define o nome da tabela
func (UserEntity) TableName() string {
	return "users"
}

// ToUser converte a entidade em modelo de domínio
func (e *UserEntity) ToUser() *User {
	return &User{
		ID:        e.ID,
		Nombre:    e.Nombre,
		Username:  e.Username,
		Password:  e.Password,
		Rol:       Rol(e.Rol),
		Area:      e.Area,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// FromUser preenche a entidade a partir do modelo de domínio
func (e *UserEntity) FromUser(u *User) {
	e.ID = u.ID
	e.Nombre = u.Nombre
	e.Username = u.Username
	e.Password = u.Password
	e.Rol = string(u.Rol)
	e.Area = u.Area
	e.CreatedAt = u.CreatedAt
	e.UpdatedAt = u.UpdatedAt
}
