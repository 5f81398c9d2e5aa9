package ratelimit

import (
	"context"
	"errors"
	"time"
)

// LimitConfig configura o comportamento do limitador
type LimitConfig struct {
	Key         string        // Chave única para identificar o limite
	Limit       int           // Número máximo de requisições
	Period      time.Duration // Período de tempo para o limite
	BurstFactor float64       // Fator para permitir rajadas (1.0 = sem rajada)
}

// Result é a decisão do limitador para uma requisição
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter decide se uma requisição cabe no limite configurado.
// Em caso de erro a requisição deve ser permitida.
type Limiter interface {
	Allow(ctx context.Context, config LimitConfig) (Result, error)
}

func (c LimitConfig) validate() (LimitConfig, error) {
	if c.Limit <= 0 {
		return c, errors.New("limite deve ser maior que zero")
	}
	if c.Period <= 0 {
		return c, errors.New("período deve ser maior que zero")
	}
	if c.BurstFactor < 1 {
		c.BurstFactor = 1.0
	}
	return c, nil
}

func (c LimitConfig) burstLimit() int {
	return int(float64(c.Limit) * c.BurstFactor)
}
