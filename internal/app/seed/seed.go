// Package seed carrega os usuários padrão e as operações de exemplo.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"github.com/diillson/cotizai-api/pkg/security"
	"go.uber.org/zap"
)

// DefaultPassword é a senha dos usuários padrão
const DefaultPassword = "12345"

// AdminUsername é o dono das operações de exemplo
const AdminUsername = "admin"

// Options controla o que é carregado
type Options struct {
	AdminPassword string
	Operaciones   bool
	BcryptCost    int
}

type sampleOperacion struct {
	nombre string
	fecha  time.Time
	estado model.Estado
	area   string
	data   map[string]string
}

func defaultUsers(password string) []model.User {
	return []model.User{
		{Nombre: "Administrador", Username: AdminUsername, Password: password, Rol: model.RolAdmin, Area: "Administración"},
		{Nombre: "Cotizador", Username: "cotizador", Password: password, Rol: model.RolCotizador, Area: "Comercial"},
	}
}

var sampleOperaciones = []sampleOperacion{
	{
		nombre: "Cotización Web Inmobiliaria",
		fecha:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		estado: model.EstadoAprobado,
		area:   "Comercial",
		data: map[string]string{
			"nombreEmpresa": "Inmobiliaria Ejemplo SAC",
			"rubro":         "Inmobiliario",
			"servicio":      "Web Multiproyecto",
			"tipo":          "Complejo",
		},
	},
	{
		nombre: "Desarrollo E-commerce Retail",
		fecha:  time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		estado: model.EstadoEnRevision,
		area:   "Marketing",
		data: map[string]string{
			"nombreEmpresa": "Retail Digital SAC",
			"rubro":         "Retail",
			"servicio":      "E-Commerce",
			"tipo":          "Complejo",
		},
	},
	{
		nombre: "Landing Page Financiera",
		fecha:  time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
		estado: model.EstadoDesestimado,
		area:   "TI",
		data: map[string]string{
			"nombreEmpresa": "Banco Digital SAC",
			"rubro":         "Financiero",
			"servicio":      "Landing",
			"tipo":          "Básico",
		},
	},
}

// Run cria o que ainda não existe. Pode ser chamado a cada inicialização.
// Usuários são verificados pelo username; operações só entram com a tabela vazia e o admin presente.
func Run(ctx context.Context, users repository.UserRepository, operaciones repository.OperacionRepository, opts Options, logger *zap.Logger) error {
	if opts.AdminPassword == "" {
		opts.AdminPassword = DefaultPassword
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = security.DefaultBcryptCost
	}

	logger.Info("Inicializando dados padrão")

	if err := seedUsers(ctx, users, opts, logger); err != nil {
		return err
	}
	if !opts.Operaciones {
		return nil
	}
	return seedOperaciones(ctx, users, operaciones, logger)
}

func seedUsers(ctx context.Context, users repository.UserRepository, opts Options, logger *zap.Logger) error {
	for _, u := range defaultUsers(opts.AdminPassword) {
		_, err := users.GetUserByUsername(ctx, u.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("falha ao verificar usuário %s: %w", u.Username, err)
		}

		hash, err := security.HashPassword(u.Password, opts.BcryptCost)
		if err != nil {
			return fmt.Errorf("falha ao gerar hash para %s: %w", u.Username, err)
		}
		user := u
		user.Password = hash
		if err := users.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, repository.ErrUserExists) {
				continue
			}
			return fmt.Errorf("falha ao criar usuário %s: %w", u.Username, err)
		}
		logger.Info("Usuário padrão criado", zap.String("username", user.Username), zap.String("rol", string(user.Rol)))
	}
	return nil
}

func seedOperaciones(ctx context.Context, users repository.UserRepository, operaciones repository.OperacionRepository, logger *zap.Logger) error {
	count, err := operaciones.CountOperaciones(ctx)
	if err != nil {
		return fmt.Errorf("falha ao contar operações: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin, err := users.GetUserByUsername(ctx, AdminUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Warn("Admin ausente, operações de exemplo não criadas")
			return nil
		}
		return fmt.Errorf("falha ao buscar admin: %w", err)
	}

	for _, sample := range sampleOperaciones {
		data, err := json.Marshal(sample.data)
		if err != nil {
			return err
		}
		op := &model.Operacion{
			Nombre: sample.nombre,
			Fecha:  sample.fecha,
			Estado: sample.estado,
			UserID: admin.ID,
			Area:   sample.area,
			Data:   data,
		}
		if err := operaciones.CreateOperacion(ctx, op); err != nil {
			return fmt.Errorf("falha ao criar operação %q: %w", sample.nombre, err)
		}
	}
	logger.Info("Operações de exemplo criadas", zap.Int("total", len(sampleOperaciones)))
	return nil
}
