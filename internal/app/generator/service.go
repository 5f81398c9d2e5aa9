// Package generator produz os textos da cotização com IA e fallbacks determinísticos.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/diillson/cotizai-api/internal/domain/service"
	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"go.uber.org/zap"
)

// Service tenta o gerador de IA uma vez e cai no fallback em qualquer falha
type Service struct {
	generator service.TextGenerator
	logger    *zap.Logger
	metrics   *metrics.APIMetrics
}

// NewService cria o serviço. Gerador nil equivale a IA desabilitada.
func NewService(generator service.TextGenerator, logger *zap.Logger, m *metrics.APIMetrics) *Service {
	if generator == nil {
		generator = service.DisabledGenerator{}
	}
	return &Service{generator: generator, logger: logger, metrics: m}
}

// AnalyzeProjectTime reescreve o prazo informado como condição contratual
func (s *Service) AnalyzeProjectTime(ctx context.Context, tiempo string) string {
	prompt := fmt.Sprintf(`
Analiza la siguiente descripción de tiempo de desarrollo de un proyecto web y genera una versión profesional y estructurada para una sección de condiciones de contrato.

Descripción del usuario: "%s"

Genera una respuesta que incluya:
1. Duración estimada en días/meses
2. División en fases o sprints si es aplicable
3. Entregables por fase
4. Consideraciones sobre variaciones de tiempo

Formato de respuesta: Solo el texto estructurado, sin introducciones ni explicaciones adicionales.
`, tiempo)

	text, ok := s.try(ctx, "time", prompt)
	if !ok {
		return FallbackTimeAnalysis(tiempo)
	}
	return text
}

// ImproveRequirements reescreve os requisitos em até cinco itens formais
func (s *Service) ImproveRequirements(ctx context.Context, requerimientos, rubro, servicio string) string {
	prompt := fmt.Sprintf(`
Reescribe el requerimiento original y transformalo en una lista de máximo 5 items para que sea mas formal y profesional, pero manteniendo el mismo contenido. El requerimiento esta enfocado en una app o web.

Requerimientos original: "%s"

Ejemplos:

Requerimientos original: que se vea bonito y atractivo

Posible respuesta tuya:
%s

NO DEVUELVAS SALUDOS, SOLO LA LISTA SOLICITADA, SIN GUIONES.
`, requerimientos, FallbackRequirements())

	text, ok := s.try(ctx, "requirements", prompt)
	if !ok {
		return FallbackRequirements()
	}

	items := CleanRequirements(text)
	if len(items) == 0 {
		s.logger.Warn("resposta da IA sem requisitos utilizáveis",
			zap.String("rubro", rubro),
			zap.String("servicio", servicio))
		s.metrics.AIRequest("requirements", "fallback")
		return FallbackRequirements()
	}
	return strings.Join(items, "\n")
}

// ProjectDescription gera a descrição comercial do projeto
func (s *Service) ProjectDescription(ctx context.Context, rubro, servicio string) string {
	prompt := fmt.Sprintf(`
Redacta la descripción comercial de un proyecto de %s para una empresa del sector %s.

Usa como referencia de tono y extensión el siguiente texto:
"%s"

Escribe dos párrafos en español, con lenguaje profesional y persuasivo, mencionando las funcionalidades clave del proyecto.
Formato de respuesta: Solo el texto, sin títulos, saludos ni explicaciones adicionales.
`, servicio, rubro, FallbackDescription(rubro, servicio))

	text, ok := s.try(ctx, "description", prompt)
	if !ok {
		return FallbackDescription(rubro, servicio)
	}
	return text
}

// try faz uma única chamada e informa se o texto pode ser usado
func (s *Service) try(ctx context.Context, name, prompt string) (string, bool) {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("gerador de IA indisponível, usando fallback",
			zap.String("generator", name),
			zap.Error(err))
		s.metrics.AIRequest(name, "fallback")
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.metrics.AIRequest(name, "fallback")
		return "", false
	}

	s.metrics.AIRequest(name, "ok")
	return text, true
}
