package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/webpage"
)

// CrawlerName identifica a estratégia heurística em logs e métricas
const CrawlerName = "crawler"

const (
	qualityInsufficient = "Contenido insuficiente"
	qualityBasic        = "Contenido básico"
	qualityAdequate     = "Contenido adecuado"
	qualityExtensive    = "Contenido extenso"
)

// pageKeywords liga cada seção do catálogo às palavras que indicam a sua presença
var pageKeywords = map[string][]string{
	"Inicio (Home)":                {"inicio", "home", "principal"},
	"Nosotros":                     {"nosotros", "about", "sobre", "empresa"},
	"Proyectos":                    {"proyectos", "projects", "propiedades", "properties"},
	"Detalle del Proyecto":         {"detalle", "proyecto", "propiedad"},
	"Vende tu Terreno":             {"vende", "terreno", "referidos"},
	"Refiere y Gana":               {"refiere", "gana", "blog", "noticias"},
	"Contacto":                     {"contacto", "contact", "comunícate"},
	"Catálogo de Propiedades":      {"catálogo", "catalogo", "propiedades", "properties"},
	"Sistema de Reservas":          {"reservas", "reservar", "booking"},
	"Panel de Usuario":             {"panel", "usuario", "mi cuenta", "dashboard"},
	"Comparador de Propiedades":    {"comparador", "comparar"},
	"Chat en Vivo":                 {"chat", "vivo", "ayuda"},
	"Sistema de Favoritos":         {"favoritos", "guardar", "wishlist"},
	"Búsqueda Geolocalizada":       {"geolocalizada", "ubicación", "mapa"},
	"Notificaciones Push":          {"notificaciones", "push", "alertas"},
	"Realidad Aumentada":           {"realidad", "aumentada", "ar"},
	"Sincronización Offline":       {"offline", "sincronización"},
	"Sistema de Mensajería":        {"mensajería", "mensajes", "chat"},
	"Calendario de Citas":          {"calendario", "citas", "agendar"},
	"Catálogo de Productos":        {"catálogo", "catalogo", "productos", "products"},
	"Carrito de Compras":           {"carrito", "compras", "cart"},
	"Pasarela de Pagos":            {"pagos", "payment", "checkout"},
	"Sistema de Inventario":        {"inventario", "stock"},
	"Programa de Lealtad":          {"lealtad", "puntos", "recompensas"},
	"Reviews y Ratings":            {"reviews", "ratings", "opiniones"},
	"Wishlist":                     {"wishlist", "deseos", "favoritos"},
	"Ofertas y Promociones":        {"ofertas", "promociones", "descuentos"},
	"Newsletter":                   {"newsletter", "suscribirse", "email"},
	"Testimonios":                  {"testimonios", "opiniones", "clientes"},
	"Comparador de Precios":        {"comparador", "precios"},
	"FAQ Section":                  {"faq", "preguntas", "frecuentes"},
	"Calculadoras Financieras":     {"calculadora", "calculator", "financiera"},
	"Simuladores de Crédito":       {"simulador", "crédito", "préstamo"},
	"Información de Servicios":     {"servicios", "services", "información"},
	"Testimonios de Confianza":     {"testimonios", "confianza", "casos"},
	"Certificaciones de Seguridad": {"certificaciones", "seguridad", "ssl"},
	"Centro de Ayuda":              {"ayuda", "help", "soporte"},
	"Chat Especializado":           {"chat", "especializado", "asesor"},
	"Dashboard Personalizado":      {"dashboard", "personalizado", "panel"},
	"Autenticación 2FA":            {"2fa", "autenticación", "seguridad"},
	"Historial de Transacciones":   {"historial", "transacciones", "movimientos"},
	"Alertas y Notificaciones":     {"alertas", "notificaciones"},
	"Reportes Financieros":         {"reportes", "financieros"},
	"Soporte Multimoneda":          {"multimoneda", "monedas"},
	"Backup de Seguridad":          {"backup", "respaldo", "seguridad"},
}

var (
	modernFrameworks   = []string{"bootstrap", "tailwind", "material", "chakra"}
	socialPlatforms    = []string{"facebook", "twitter", "instagram", "linkedin", "youtube"}
	analyticsServices  = []string{"google-analytics", "gtag", "ga(", "facebook pixel"}
	commonPageSections = []string{"about", "sobre", "contacto", "contact", "services", "servicios"}
)

// CrawlerStrategy pontua o site só com regras determinísticas, sem IA
type CrawlerStrategy struct {
	timeout time.Duration
}

var _ Strategy[AnalysisResult] = (*CrawlerStrategy)(nil)

// NewCrawlerStrategy cria a estratégia heurística. Timeout zero usa 10s.
func NewCrawlerStrategy(timeout time.Duration) *CrawlerStrategy {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CrawlerStrategy{timeout: timeout}
}

func (s *CrawlerStrategy) Name() string           { return CrawlerName }
func (s *CrawlerStrategy) Timeout() time.Duration { return s.timeout }

// Analyze monta o AnalysisResult a partir do documento
func (s *CrawlerStrategy) Analyze(_ context.Context, doc *webpage.Document, req Request) (AnalysisResult, error) {
	title := doc.Title()
	if title == "" {
		title = "Sin título"
	}
	description := doc.Meta("description")

	seo := SEOAnalysis{
		HasMetaDescription: description != "",
		HasMetaKeywords:    doc.Meta("keywords") != "",
		HasH1Tags:          doc.Count(webpage.Tag("h1")) > 0,
		HasAltTexts:        altCoverage(doc),
		PageSpeedIssues:    pageSpeedIssues(doc),
	}

	design := DesignAnalysis{
		IsResponsive:     isResponsive(doc),
		HasModernDesign:  doc.Contains(modernFrameworks...),
		NavigationIssues: navigationIssues(doc),
		UXIssues:         uxIssues(doc),
	}

	content := ContentAnalysis{
		ContentQuality:     contentQuality(doc),
		MissingSections:    missingCommonSections(doc),
		EngagementElements: engagementElements(doc),
	}

	technical := TechnicalAnalysis{
		HasSSL:          strings.HasPrefix(doc.URL, "https://"),
		HasContactForms: doc.Count(webpage.Tag("form")) > 0,
		HasSocialMedia:  doc.Contains(socialPlatforms...),
		HasAnalytics:    doc.Contains(analyticsServices...),
	}

	missingPages := findMissingPages(doc, ExpectedNames(req.Rubro, req.Servicio))
	recommendations := crawlerRecommendations(seo, design, content, technical, missingPages, req)
	score := crawlerScore(seo, design, content, technical)

	return AnalysisResult{
		URL:               doc.URL,
		Title:             title,
		Description:       description,
		MissingFeatures:   missingPages,
		Recommendations:   recommendations,
		SEOAnalysis:       seo,
		DesignAnalysis:    design,
		ContentAnalysis:   content,
		TechnicalAnalysis: technical,
		OverallScore:      score,
		DetailedAnalysis:  detailedAnalysis(req, missingPages, recommendations, score),
	}, nil
}

// Fallback devolve o relatório genérico do rubro
func (s *CrawlerStrategy) Fallback(req Request) AnalysisResult {
	return CrawlerFallback(req)
}

// altCoverage exige alt em pelo menos 80% das imagens. Sem imagens não há cobertura.
func altCoverage(doc *webpage.Document) bool {
	images := doc.Count(webpage.Tag("img"))
	if images == 0 {
		return false
	}
	withAlt := doc.Count(webpage.HasAttr("img", "alt"))
	return withAlt*5 >= images*4
}

func pageSpeedIssues(doc *webpage.Document) []string {
	issues := []string{}
	if doc.Count(webpage.Tag("script")) > 10 {
		issues = append(issues, "Exceso de scripts JavaScript pueden afectar la velocidad de carga")
	}
	if doc.Count(webpage.Tag("img")) > 20 {
		issues = append(issues, "Gran cantidad de imágenes sin optimizar detectadas")
	}
	if doc.Count(webpage.AttrEquals("link", "rel", "stylesheet")) > 5 {
		issues = append(issues, "Múltiples archivos CSS externos pueden ralentizar la carga")
	}
	return issues
}

func isResponsive(doc *webpage.Document) bool {
	for _, n := range doc.FindAll(webpage.Tag("meta")) {
		if name, _ := webpage.Attr(n, "name"); strings.EqualFold(name, "viewport") {
			if content, _ := webpage.Attr(n, "content"); content != "" {
				return true
			}
		}
	}
	css := doc.Text(webpage.Tag("style"), webpage.AttrEquals("link", "rel", "stylesheet"))
	return strings.Contains(css, "@media")
}

var (
	navContainer = webpage.Any(webpage.Tag("nav"), webpage.Class("nav"), webpage.Class("menu"))
	navLinks     = webpage.Within(navContainer, webpage.Tag("a"))
	// links de navegação incluindo o cabeçalho
	headerNavLinks = webpage.Within(webpage.Any(navContainer, webpage.Tag("header")), webpage.Tag("a"))
)

func navigationIssues(doc *webpage.Document) []string {
	issues := []string{}
	if doc.Count(navContainer, webpage.Class("navigation")) == 0 {
		issues = append(issues, "No se detectó un sistema de navegación claro")
	}
	if doc.Count(navLinks) > 10 {
		issues = append(issues, "Demasiados elementos en el menú principal")
	}
	return issues
}

func uxIssues(doc *webpage.Document) []string {
	issues := []string{}
	ctas := doc.Count(webpage.Tag("button"), webpage.Class("btn"), webpage.AttrEquals("input", "type", "submit"))
	if ctas < 2 {
		issues = append(issues, "Pocos elementos de llamada a la acción (CTA)")
	}
	if doc.Count(webpage.Tag("footer")) == 0 {
		issues = append(issues, "Falta de información de contacto en footer")
	}
	return issues
}

// contentQuality classifica o volume de texto em p, div e span
func contentQuality(doc *webpage.Document) string {
	words := len(strings.Fields(doc.Text(webpage.Tag("p"), webpage.Tag("div"), webpage.Tag("span"))))
	switch {
	case words < 300:
		return qualityInsufficient
	case words < 800:
		return qualityBasic
	case words < 1500:
		return qualityAdequate
	default:
		return qualityExtensive
	}
}

func missingCommonSections(doc *webpage.Document) []string {
	missing := []string{}
	for _, section := range commonPageSections {
		if !doc.Contains(section) {
			missing = append(missing, "Sección "+section)
		}
	}
	return missing
}

func engagementElements(doc *webpage.Document) []string {
	elements := []string{}
	if doc.Count(webpage.Tag("form")) > 0 {
		elements = append(elements, "Formularios de contacto")
	}
	if doc.Count(webpage.Class("testimonial"), webpage.Class("review")) > 0 {
		elements = append(elements, "Testimonios")
	}
	if doc.Count(webpage.Class("social"), webpage.Class("share")) > 0 {
		elements = append(elements, "Redes sociales")
	}
	if doc.Count(webpage.Tag("video"), webpage.AttrContains("iframe", "src", "youtube")) > 0 {
		elements = append(elements, "Contenido multimedia")
	}
	return elements
}

// navigationTexts retorna o texto dos links de navegação, em minúsculas
func navigationTexts(doc *webpage.Document) []string {
	nodes := doc.FindAll(headerNavLinks)
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, strings.ToLower(strings.TrimSpace(webpage.Text(n))))
	}
	return texts
}

// findMissingPages marca como faltante a página cujas palavras-chave não aparecem
// nem nos links de navegação nem no HTML
func findMissingPages(doc *webpage.Document, expected []string) []string {
	links := navigationTexts(doc)
	missing := []string{}

	for _, page := range expected {
		keywords, ok := pageKeywords[page]
		if !ok {
			keywords = []string{strings.ToLower(page)}
		}
		if doc.Contains(keywords...) || anyContains(links, keywords) {
			continue
		}
		missing = append(missing, page)
	}
	return missing
}

func anyContains(texts, keywords []string) bool {
	for _, t := range texts {
		for _, k := range keywords {
			if strings.Contains(t, k) {
				return true
			}
		}
	}
	return false
}

func crawlerRecommendations(seo SEOAnalysis, design DesignAnalysis, content ContentAnalysis, technical TechnicalAnalysis, missingPages []string, req Request) []string {
	recs := []string{}
	if !seo.HasMetaDescription {
		recs = append(recs, "Agregar meta descripción optimizada para SEO")
	}
	if !design.IsResponsive {
		recs = append(recs, "Implementar diseño responsive para dispositivos móviles")
	}
	if content.ContentQuality == qualityInsufficient {
		recs = append(recs, "Ampliar el contenido con información relevante del sector")
	}
	if !technical.HasSSL {
		recs = append(recs, "Implementar certificado SSL para mayor seguridad")
	}
	if len(missingPages) > 0 {
		top := missingPages
		if len(top) > 3 {
			top = top[:3]
		}
		recs = append(recs, fmt.Sprintf("Agregar páginas/secciones específicas para %s: %s", req.Rubro, strings.Join(top, ", ")))
	}
	return recs
}

// crawlerScore soma quatro quartos: SEO, design, conteúdo e técnico
func crawlerScore(seo SEOAnalysis, design DesignAnalysis, content ContentAnalysis, technical TechnicalAnalysis) int {
	var score float64

	for _, ok := range []bool{seo.HasMetaDescription, seo.HasH1Tags, seo.HasAltTexts, seo.HasMetaKeywords} {
		if ok {
			score += 6.25
		}
	}

	if design.IsResponsive {
		score += 12.5
	}
	if design.HasModernDesign {
		score += 12.5
	}

	if content.ContentQuality != qualityInsufficient {
		score += 25
	}

	if technical.HasSSL {
		score += 8.33
	}
	if technical.HasContactForms {
		score += 8.33
	}
	if technical.HasAnalytics {
		score += 8.34
	}

	return clampScore(int(math.Round(score)))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
