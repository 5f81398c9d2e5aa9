package analyzer

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Caser guarda estado e não pode ser compartilhado entre goroutines
func upper(s string) string { return cases.Upper(language.Spanish).String(s) }
func lower(s string) string { return cases.Lower(language.Spanish).String(s) }

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

func detailedAnalysis(req Request, missingPages, recommendations []string, score int) string {
	missing := "• Su sitio web cuenta con las páginas básicas esperadas"
	if len(missingPages) > 0 {
		missing = bullets(missingPages)
	}

	return fmt.Sprintf(`ANÁLISIS DETALLADO DE LA PÁGINA WEB: %[1]s

EVALUACIÓN GENERAL:
Puntuación obtenida: %[2]d/100 puntos

ANÁLISIS ESPECÍFICO PARA %[3]s - %[4]s:

La evaluación de su sitio web actual revela oportunidades significativas de mejora para optimizar su presencia digital en el sector %[5]s. 

FUNCIONALIDADES FALTANTES CRÍTICAS:
%[6]s

RECOMENDACIONES PRIORITARIAS:
%[7]s

OPORTUNIDADES DE MEJORA:
• Optimización de la experiencia de usuario específica para %[8]s
• Implementación de elementos de conversión más efectivos
• Mejora en la arquitectura de información y navegación
• Integración de herramientas analíticas avanzadas
• Optimización para motores de búsqueda con enfoque sectorial

PRÓXIMOS PASOS RECOMENDADOS:
Una renovación integral del sitio web, enfocada en las necesidades específicas del sector %[8]s, permitirá aprovechar al máximo el potencial digital de su negocio y mejorar significativamente la experiencia de sus usuarios.

La implementación de las páginas faltantes y las mejoras recomendadas posicionará su sitio web como una herramienta competitiva y efectiva para el crecimiento de su negocio.`,
		req.URL, score,
		upper(req.Rubro), upper(req.Servicio), lower(req.Rubro),
		missing, bullets(recommendations), req.Rubro)
}

// CrawlerFallback é o relatório heurístico usado quando o site não pôde ser buscado
func CrawlerFallback(req Request) AnalysisResult {
	expected := ExpectedNames(req.Rubro, req.Servicio)

	return AnalysisResult{
		URL:             req.URL,
		Title:           "Análisis no disponible",
		Description:     "No se pudo acceder al sitio web para realizar el análisis",
		MissingFeatures: expected,
		Recommendations: []string{
			"Verificar que el sitio web esté accesible",
			"Implementar páginas específicas del sector",
			"Mejorar la estructura y navegación del sitio",
			"Optimizar para dispositivos móviles",
			"Agregar elementos de confianza y credibilidad",
		},
		SEOAnalysis: SEOAnalysis{
			PageSpeedIssues: []string{"No se pudo evaluar la velocidad de carga"},
		},
		DesignAnalysis: DesignAnalysis{
			NavigationIssues: []string{"No se pudo evaluar la navegación"},
			UXIssues:         []string{"No se pudo evaluar la experiencia de usuario"},
		},
		ContentAnalysis: ContentAnalysis{
			ContentQuality:     "No evaluado",
			MissingSections:    []string{"No se pudo evaluar el contenido"},
			EngagementElements: []string{},
		},
		OverallScore: 0,
		DetailedAnalysis: fmt.Sprintf(`ANÁLISIS DEL SITIO WEB: %[1]s

No fue posible acceder al sitio web para realizar un análisis detallado. Esto puede deberse a:
• El sitio web no está disponible o accesible públicamente
• Problemas de conectividad temporal
• Restricciones de acceso del servidor

RECOMENDACIONES GENERALES PARA %[2]s - %[3]s:

Basándose en las mejores prácticas para el sector %[4]s, se recomienda implementar:

FUNCIONALIDADES ESENCIALES:
%[5]s

ASPECTOS TÉCNICOS FUNDAMENTALES:
• Certificado SSL para seguridad
• Diseño responsive para dispositivos móviles
• Optimización de velocidad de carga
• Implementación de analíticas web
• Formularios de contacto optimizados

CONSIDERACIONES DE UX/UI:
• Navegación intuitiva y clara
• Llamadas a la acción efectivas
• Contenido relevante y de calidad
• Elementos de confianza y credibilidad

Una renovación completa del sitio web, considerando estos aspectos, mejorará significativamente su presencia digital y competitividad en el mercado.`,
			req.URL, upper(req.Rubro), upper(req.Servicio), lower(req.Rubro), bullets(expected)),
	}
}

// StructureFallback marca todas as seções esperadas como faltantes, com score 0
func StructureFallback(req Request) WebsiteStructure {
	expected := Expected(req.Rubro, req.Servicio)
	missing := make([]SectionAnalysis, 0, len(expected))
	recommended := make([]SectionAnalysis, 0, len(expected))

	for _, s := range expected {
		missing = append(missing, SectionAnalysis{
			Name:            s.Name,
			Description:     s.Description,
			Recommendations: []string{fmt.Sprintf("Implementar %s para mejorar la estructura del sitio", s.Name)},
		})
		recommended = append(recommended, SectionAnalysis{
			Name:            s.Name,
			Description:     s.Description,
			Recommendations: []string{fmt.Sprintf("Agregar %s como sección esencial", s.Name)},
		})
	}

	return WebsiteStructure{
		URL:                 req.URL,
		Title:               "Análisis no disponible",
		ExistingSections:    []SectionAnalysis{},
		MissingSections:     missing,
		RecommendedSections: recommended,
		OverallAnalysis: fmt.Sprintf("No se pudo analizar la estructura de %s. Se recomienda implementar las secciones estándar para %s.",
			req.URL, lower(req.Rubro)),
		Score: 0,
	}
}

// structurePrompt monta o prompt da narrativa com o conteúdo da página e as seções
func structurePrompt(req Request, pageContent string, existing, missing []SectionAnalysis) string {
	lines := make([]string, 0, len(existing)+len(missing))
	for _, s := range existing {
		lines = append(lines, fmt.Sprintf("- %s: %s (encontrada)", s.Name, s.Description))
	}
	for _, s := range missing {
		lines = append(lines, fmt.Sprintf("- %s: %s (faltante)", s.Name, s.Description))
	}

	return fmt.Sprintf(`Analiza el contenido de esta página web y genera un análisis de estructura web para el sector %s y servicio %s.

CONTENIDO DE LA PÁGINA:
%s

TODAS LAS SECCIONES (ENCONTRADAS Y FALTANTES):
%s

Genera un análisis estructurado en el siguiente formato exacto:

1. [Nombre de la sección]:
[Descripción de lo que contiene o debería contener la sección]
[Otra característica de la sección]
[Otra característica de la sección]

2. [Otra sección]:
[Descripción de lo que contiene o debería contener la sección]
[Otra característica de la sección]

[Continuar con TODAS las secciones relevantes para el sector, tanto las que existen como las que faltan]

IMPORTANTE:
- NO uses iconos ✅ o ❌
- NO incluyas scores o puntuaciones
- NO distingas entre secciones encontradas y faltantes en el texto
- Incluye TODAS las secciones relevantes para el sector
- Para secciones encontradas, describe lo que realmente contiene
- Para secciones faltantes, describe lo que debería contener
- Usa un lenguaje profesional y técnico
- Mantén el formato exacto solicitado
- No inventes contenido que no esté en el análisis de la página
- Combina las secciones de forma natural, sin mencionar si existen o faltan

Genera solo el análisis estructurado, sin introducciones ni conclusiones adicionales.`,
		req.Rubro, req.Servicio, pageContent, strings.Join(lines, "\n"))
}
