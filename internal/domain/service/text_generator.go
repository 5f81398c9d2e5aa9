package service

import (
	"context"
	"errors"
)

// ErrGeneratorDisabled indica que nenhum provedor de IA está configurado
var ErrGeneratorDisabled = errors.New("gerador de texto desabilitado")

// TextGenerator produz texto livre a partir de um prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DisabledGenerator sempre falha, fazendo os chamadores usarem seus fallbacks
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(context.Context, string) (string, error) {
	return "", ErrGeneratorDisabled
}
