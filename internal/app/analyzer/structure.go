package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/webpage"
	"github.com/diillson/cotizai-api/internal/domain/service"
	"github.com/diillson/cotizai-api/pkg/errors"
	"go.uber.org/zap"
)

// StructureName identifica a estratégia de estrutura em logs e métricas
const StructureName = "structure"

const emptyNarrative = "No se pudo generar el análisis"

// contentKeywords detecta seções pelo HTML quando não aparecem no menu
var contentKeywords = []struct {
	terms   []string
	section string
}{
	{[]string{"formulario", "contact"}, "contacto"},
	{[]string{"proyecto", "propiedad"}, "proyectos"},
	{[]string{"nosotros", "about"}, "nosotros"},
	{[]string{"blog", "noticia"}, "blog"},
	{[]string{"calculadora", "simulador"}, "calculadora"},
	{[]string{"producto", "catalogo"}, "productos"},
}

// canonicalSections normaliza o texto detectado para o nome da seção
var canonicalSections = map[string]string{
	"inicio":      "Inicio (Home)",
	"home":        "Inicio (Home)",
	"nosotros":    "Nosotros",
	"about":       "Nosotros",
	"proyectos":   "Proyectos",
	"projects":    "Proyectos",
	"propiedades": "Proyectos",
	"properties":  "Proyectos",
	"contacto":    "Contacto",
	"contact":     "Contacto",
	"blog":        "Blog",
	"noticias":    "Blog",
	"news":        "Blog",
	"productos":   "Catálogo de Productos",
	"products":    "Catálogo de Productos",
	"catalogo":    "Catálogo de Productos",
	"catalog":     "Catálogo de Productos",
	"servicios":   "Servicios",
	"services":    "Servicios",
	"calculadora": "Calculadoras Financieras",
	"calculator":  "Calculadoras Financieras",
	"simulador":   "Simuladores de Crédito",
	"simulator":   "Simuladores de Crédito",
}

var sectionDescriptions = map[string]string{
	"Inicio (Home)":            "Página principal con navegación y contenido destacado",
	"Nosotros":                 "Información sobre la empresa, historia y valores",
	"Proyectos":                "Galería y detalles de proyectos o productos",
	"Contacto":                 "Información de contacto y formularios",
	"Blog":                     "Artículos y noticias del sector",
	"Catálogo de Productos":    "Lista de productos o servicios disponibles",
	"Calculadoras Financieras": "Herramientas de cálculo financiero",
	"Simuladores de Crédito":   "Simuladores de préstamos y créditos",
}

// StructureStrategy compara as seções do site com o catálogo e pede a narrativa à IA
type StructureStrategy struct {
	generator service.TextGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

var _ Strategy[WebsiteStructure] = (*StructureStrategy)(nil)

// NewStructureStrategy cria a estratégia de estrutura. Timeout zero usa 15s.
func NewStructureStrategy(generator service.TextGenerator, timeout time.Duration, logger *zap.Logger) *StructureStrategy {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructureStrategy{generator: generator, timeout: timeout, logger: logger}
}

func (s *StructureStrategy) Name() string           { return StructureName }
func (s *StructureStrategy) Timeout() time.Duration { return s.timeout }

// Analyze detecta as seções e gera a narrativa. Falha da IA vira um erro 500.
func (s *StructureStrategy) Analyze(ctx context.Context, doc *webpage.Document, req Request) (WebsiteStructure, error) {
	title := doc.Title()
	if title == "" {
		title = "Sin título"
	}

	existing := DetectSections(doc)
	expected := Expected(req.Rubro, req.Servicio)
	missing := MissingSections(existing, expected)
	recommended := RecommendedSections(req, existing, missing)
	score := StructureScore(existing, expected)

	narrative, err := s.generator.Generate(ctx, structurePrompt(req, pageContent(doc), existing, missing))
	if err != nil {
		s.logger.Warn("Narrativa da IA indisponível",
			zap.String("url", doc.URL),
			zap.String("rubro", req.Rubro),
			zap.Error(err))
		return WebsiteStructure{}, errors.NewInternalServerError(errors.MsgAnalysisFailure, err)
	}
	if strings.TrimSpace(narrative) == "" {
		narrative = emptyNarrative
	}

	return WebsiteStructure{
		URL:                 doc.URL,
		Title:               title,
		ExistingSections:    existing,
		MissingSections:     missing,
		RecommendedSections: recommended,
		OverallAnalysis:     narrative,
		Score:               score,
	}, nil
}

// Fallback devolve o relatório com todas as seções faltantes
func (s *StructureStrategy) Fallback(req Request) WebsiteStructure {
	return StructureFallback(req)
}

// DetectSections junta links de navegação e palavras-chave do HTML em seções únicas
func DetectSections(doc *webpage.Document) []SectionAnalysis {
	sections := []SectionAnalysis{}
	seen := make(map[string]bool)

	for _, raw := range detectedTokens(doc) {
		name := raw
		if canonical, ok := canonicalSections[raw]; ok {
			name = canonical
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		summary := sectionContent(doc, raw)
		sections = append(sections, SectionAnalysis{
			Name:            name,
			Description:     sectionDescription(name),
			Found:           true,
			ContentSummary:  summary,
			Recommendations: sectionRecommendations(name, summary),
		})
	}
	return sections
}

// detectedTokens retorna os textos de navegação seguidos das seções por conteúdo, sem repetição
func detectedTokens(doc *webpage.Document) []string {
	tokens := navigationTexts(doc)
	for _, k := range contentKeywords {
		if doc.Contains(k.terms...) {
			tokens = append(tokens, k.section)
		}
	}

	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func sectionDescription(name string) string {
	if d, ok := sectionDescriptions[name]; ok {
		return d
	}
	return "Sección " + name
}

// sectionContent resume o texto dos elementos ligados à seção
func sectionContent(doc *webpage.Document, token string) string {
	selections := []webpage.Matcher{
		webpage.AttrContains("", "class", token),
		webpage.AttrContains("", "id", token),
		webpage.ContainsText("section", token),
		webpage.ContainsText("div", token),
	}

	var b strings.Builder
	for _, m := range selections {
		nodes := doc.FindAll(m)
		if len(nodes) == 0 {
			continue
		}
		b.WriteString(truncateRunes(webpage.Text(nodes...), 200))
		b.WriteString("...")
	}
	if b.Len() == 0 {
		return "Contenido no disponible"
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func sectionRecommendations(name, content string) []string {
	var recs []string
	switch name {
	case "Inicio (Home)":
		if !strings.Contains(content, "slider") && !strings.Contains(content, "carousel") {
			recs = append(recs, "Agregar slider de imágenes o videos destacados")
		}
		if !strings.Contains(content, "formulario") {
			recs = append(recs, "Incluir formulario de contacto o cotización")
		}
	case "Proyectos":
		if !strings.Contains(content, "filtro") {
			recs = append(recs, "Implementar filtros de búsqueda avanzados")
		}
		if !strings.Contains(content, "galería") {
			recs = append(recs, "Agregar galería de imágenes de proyectos")
		}
	case "Contacto":
		if !strings.Contains(content, "mapa") {
			recs = append(recs, "Incluir mapa de ubicación")
		}
		if !strings.Contains(content, "teléfono") && !strings.Contains(content, "email") {
			recs = append(recs, "Agregar información de contacto completa")
		}
	}
	return recs
}

// matches compara nomes sem caixa, por substring em qualquer direção
func matches(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func isPresent(existing []SectionAnalysis, name string) bool {
	for _, s := range existing {
		if matches(s.Name, name) {
			return true
		}
	}
	return false
}

// MissingSections retorna as seções esperadas sem correspondência entre as existentes
func MissingSections(existing []SectionAnalysis, expected []ExpectedSection) []SectionAnalysis {
	missing := []SectionAnalysis{}
	for _, e := range expected {
		if isPresent(existing, e.Name) {
			continue
		}
		recs := []string{
			"Implementar sección \"" + e.Name + "\"",
			"Agregar contenido relevante: " + e.Description,
		}
		if e.Required {
			recs = append(recs, "Esta sección es crítica para el sector seleccionado")
		}
		missing = append(missing, SectionAnalysis{
			Name:            e.Name,
			Description:     e.Description,
			Recommendations: recs,
		})
	}
	return missing
}

type extraSection struct {
	name, description string
}

func extraSections(req Request) []extraSection {
	var extras []extraSection
	if Sector(req.Rubro) == SectorInmobiliario {
		extras = append(extras,
			extraSection{"Vende tu Terreno", "Programa de referidos inmobiliarios"},
			extraSection{"Refiere y Gana", "Blog de noticias del sector"})
	}
	if Offering(req.Servicio) == OfferingECommerce {
		extras = append(extras,
			extraSection{"Carrito de Compras", "Sistema de compras online"},
			extraSection{"Pasarela de Pagos", "Métodos de pago seguros"})
	}
	return extras
}

// RecommendedSections une as faltantes críticas do rubro às sugestões extras ausentes
func RecommendedSections(req Request, existing, missing []SectionAnalysis) []SectionAnalysis {
	recommended := []SectionAnalysis{}
	listed := make(map[string]bool)

	for _, m := range missing {
		if isCritical(m.Name, req.Rubro) {
			recommended = append(recommended, m)
			listed[m.Name] = true
		}
	}

	for _, extra := range extraSections(req) {
		if listed[extra.name] || containsSection(existing, extra.name) {
			continue
		}
		listed[extra.name] = true
		recommended = append(recommended, SectionAnalysis{
			Name:            extra.name,
			Description:     extra.description,
			Recommendations: []string{fmt.Sprintf("Implementar %s para mejorar la experiencia del usuario", extra.name)},
		})
	}
	return recommended
}

// containsSection procura name dentro do nome de alguma seção existente
func containsSection(existing []SectionAnalysis, name string) bool {
	lname := strings.ToLower(name)
	for _, s := range existing {
		if strings.Contains(strings.ToLower(s.Name), lname) {
			return true
		}
	}
	return false
}

// StructureScore pondera 60% as seções esperadas encontradas e 40% as obrigatórias.
// Um termo com denominador zero contribui 0.
func StructureScore(existing []SectionAnalysis, expected []ExpectedSection) int {
	var found, required, requiredFound int
	for _, e := range expected {
		present := isPresent(existing, e.Name)
		if present {
			found++
		}
		if e.Required {
			required++
			if present {
				requiredFound++
			}
		}
	}

	var score float64
	if len(expected) > 0 {
		score += 60 * float64(found) / float64(len(expected))
	}
	if required > 0 {
		score += 40 * float64(requiredFound) / float64(required)
	}
	return clampScore(int(math.Round(score)))
}

// pageContent resume a página para o prompt da narrativa
func pageContent(doc *webpage.Document) string {
	var parts []string

	if title := doc.Title(); title != "" {
		parts = append(parts, "Título: "+title)
	}
	if desc := doc.Meta("description"); desc != "" {
		parts = append(parts, "Descripción: "+desc)
	}

	nav := strings.TrimSpace(doc.Text(webpage.Tag("nav"), webpage.Class("nav"), webpage.Class("menu"), webpage.Tag("header")))
	if nav != "" {
		parts = append(parts, "Navegación: "+truncateRunes(nav, 500))
	}

	body := strings.TrimSpace(doc.Text(webpage.Tag("main"), webpage.Class("main"), webpage.Class("content"), webpage.Class("container")))
	if body != "" {
		parts = append(parts, "Contenido principal: "+truncateRunes(body, 1000))
	}

	parts = append(parts, fmt.Sprintf("Formularios encontrados: %d", doc.Count(webpage.Tag("form"))))

	var links []string
	for _, n := range doc.FindAll(webpage.Tag("a")) {
		if text := strings.TrimSpace(webpage.Text(n)); text != "" {
			links = append(links, text)
			if len(links) == 20 {
				break
			}
		}
	}
	parts = append(parts, "Enlaces de navegación: "+strings.Join(links, ", "))
	parts = append(parts, fmt.Sprintf("Imágenes encontradas: %d", doc.Count(webpage.Tag("img"))))

	return strings.Join(parts, "\n\n")
}
