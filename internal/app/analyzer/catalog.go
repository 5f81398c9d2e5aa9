package analyzer

import (
	"fmt"
	"strings"
)

// Sector é o rubro do cliente
type Sector string

const (
	SectorInmobiliario Sector = "Inmobiliario"
	SectorRetail       Sector = "Retail"
	SectorFinanciero   Sector = "Financiero"
)

// Offering é o tipo de serviço cotizado
type Offering string

const (
	OfferingLanding       Offering = "Landing"
	OfferingECommerce     Offering = "E-Commerce"
	OfferingAplicacion    Offering = "Aplicación"
	OfferingMultiproyecto Offering = "Web Multiproyecto"
)

// Sectors retorna os rubros conhecidos
func Sectors() []Sector {
	return []Sector{SectorInmobiliario, SectorRetail, SectorFinanciero}
}

// Offerings retorna os serviços conhecidos
func Offerings() []Offering {
	return []Offering{OfferingLanding, OfferingECommerce, OfferingAplicacion, OfferingMultiproyecto}
}

// ExpectedSection é uma seção que um site do rubro deveria ter
type ExpectedSection struct {
	Name        string
	Description string
	Required    bool
}

const (
	sectionInicio   = "Inicio (Home)"
	sectionContacto = "Contacto"
)

var (
	inicioGeneric   = ExpectedSection{sectionInicio, "Página principal con navegación y contenido destacado", true}
	contactoGeneric = ExpectedSection{sectionContacto, "Información de contacto y formularios", true}
)

var catalog = map[Sector]map[Offering][]ExpectedSection{
	SectorInmobiliario: {
		OfferingLanding: {
			{sectionInicio, "Página principal con cabecera, slider de imágenes, proyectos destacados, filtro de búsqueda y formulario de cotización", true},
			{"Nosotros", "Historia de la empresa, valores, filosofía, línea de tiempo de proyectos y formulario de cotización", true},
			{"Proyectos", "Galería de proyectos con filtros avanzados, páginas individuales con detalles específicos", true},
			{"Detalle del Proyecto", "Slider del proyecto, presentación, detalles iconográficos, avances de obra, concepto, galerías, recorrido virtual, mapa y formulario de cotización", true},
			{"Vende tu Terreno", "Programa de referidos con premios, beneficios, pasos a seguir y formulario de datos", false},
			{"Refiere y Gana", "Blog o noticias sobre novedades, eventos y noticias del sector inmobiliario", false},
			{sectionContacto, "Formulario de cotización, información de contacto y ubicación", true},
		},
		OfferingECommerce: {
			{"Catálogo de Propiedades", "Lista completa de propiedades con filtros avanzados, búsqueda y comparación", true},
			{"Sistema de Reservas", "Proceso de reserva online con pasarela de pagos y confirmación", true},
			{"Panel de Usuario", "Dashboard personalizado para gestionar reservas, favoritos y preferencias", true},
			{"Comparador de Propiedades", "Herramienta para comparar múltiples propiedades lado a lado", true},
			{"Chat en Vivo", "Sistema de chat para atención al cliente en tiempo real", true},
			{"Sistema de Favoritos", "Guardar propiedades favoritas para revisión posterior", true},
		},
		OfferingAplicacion: {
			{"Búsqueda Geolocalizada", "Búsqueda de propiedades por ubicación con GPS", true},
			{"Notificaciones Push", "Alertas sobre nuevas propiedades y ofertas especiales", true},
			{"Realidad Aumentada", "Visualización de propiedades en AR", false},
			{"Sincronización Offline", "Acceso a datos sin conexión", true},
			{"Sistema de Mensajería", "Chat interno con asesores", true},
			{"Calendario de Citas", "Agendar visitas a propiedades", true},
		},
	},
	SectorRetail: {
		OfferingECommerce: {
			{"Catálogo de Productos", "Lista completa de productos con categorías y filtros", true},
			{"Carrito de Compras", "Sistema de carrito con gestión de productos", true},
			{"Pasarela de Pagos", "Múltiples métodos de pago seguros", true},
			{"Sistema de Inventario", "Control de stock en tiempo real", true},
			{"Programa de Lealtad", "Sistema de puntos y recompensas", false},
			{"Reviews y Ratings", "Sistema de reseñas de productos", true},
			{"Wishlist", "Lista de deseos personalizada", true},
		},
		OfferingLanding: {
			inicioGeneric,
			{"Catálogo de Productos", "Productos destacados con galería", true},
			{"Ofertas y Promociones", "Sección de ofertas especiales", true},
			{"Newsletter", "Suscripción para ofertas exclusivas", true},
			{"Testimonios", "Opiniones de clientes satisfechos", true},
			{"Comparador de Precios", "Comparación de precios con competencia", false},
			{"FAQ Section", "Preguntas frecuentes", true},
			contactoGeneric,
		},
	},
	SectorFinanciero: {
		OfferingLanding: {
			inicioGeneric,
			{"Calculadoras Financieras", "Herramientas para calcular préstamos, intereses y cuotas", true},
			{"Simuladores de Crédito", "Simulación de diferentes tipos de crédito", true},
			{"Información de Servicios", "Descripción detallada de productos financieros", true},
			{"Testimonios de Confianza", "Casos de éxito y testimonios de clientes", true},
			{"Certificaciones de Seguridad", "Información sobre seguridad y regulaciones", true},
			{"Centro de Ayuda", "FAQ y soporte al cliente", true},
			{"Chat Especializado", "Atención personalizada para consultas financieras", true},
			contactoGeneric,
		},
		OfferingAplicacion: {
			{"Dashboard Personalizado", "Vista general de productos y servicios financieros", true},
			{"Autenticación 2FA", "Seguridad de dos factores", true},
			{"Historial de Transacciones", "Registro completo de movimientos", true},
			{"Alertas y Notificaciones", "Notificaciones de movimientos y ofertas", true},
			{"Reportes Financieros", "Generación de reportes personalizados", true},
			{"Soporte Multimoneda", "Operaciones en diferentes monedas", false},
			{"Backup de Seguridad", "Respaldo seguro de información", true},
		},
	},
}

// criticalSections são as seções que entram como recomendadas quando faltam
var criticalSections = map[Sector][]string{
	SectorInmobiliario: {sectionInicio, "Proyectos", sectionContacto},
	SectorRetail:       {"Catálogo de Productos", sectionContacto},
	SectorFinanciero:   {"Calculadoras Financieras", sectionContacto},
}

func init() {
	if err := validateCatalog(); err != nil {
		panic(err)
	}
}

// validateCatalog garante que o catálogo só usa rubros e serviços conhecidos
// e que toda seção tem nome, descrição e palavras-chave para o crawler
func validateCatalog() error {
	sectors := make(map[Sector]bool)
	for _, s := range Sectors() {
		sectors[s] = true
	}
	offerings := make(map[Offering]bool)
	for _, o := range Offerings() {
		offerings[o] = true
	}

	for sector, byOffering := range catalog {
		if !sectors[sector] {
			return fmt.Errorf("catálogo: rubro desconhecido %q", sector)
		}
		for offering, sections := range byOffering {
			if !offerings[offering] {
				return fmt.Errorf("catálogo: serviço desconhecido %q em %s", offering, sector)
			}
			seen := make(map[string]bool, len(sections))
			for _, s := range sections {
				if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Description) == "" {
					return fmt.Errorf("catálogo: seção incompleta em %s/%s", sector, offering)
				}
				if seen[s.Name] {
					return fmt.Errorf("catálogo: seção duplicada %q em %s/%s", s.Name, sector, offering)
				}
				seen[s.Name] = true
				if _, ok := pageKeywords[s.Name]; !ok {
					return fmt.Errorf("catálogo: seção %q sem palavras-chave", s.Name)
				}
			}
		}
	}

	for sector := range criticalSections {
		if !sectors[sector] {
			return fmt.Errorf("catálogo: rubro crítico desconhecido %q", sector)
		}
	}
	return nil
}

// Expected retorna uma cópia das seções esperadas. Combinações desconhecidas retornam nil.
func Expected(rubro, servicio string) []ExpectedSection {
	sections := catalog[Sector(rubro)][Offering(servicio)]
	if len(sections) == 0 {
		return nil
	}
	out := make([]ExpectedSection, len(sections))
	copy(out, sections)
	return out
}

// ExpectedNames retorna apenas os nomes das seções esperadas
func ExpectedNames(rubro, servicio string) []string {
	sections := Expected(rubro, servicio)
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.Name)
	}
	return names
}

// isCritical indica se a seção está na lista crítica do rubro
func isCritical(name, rubro string) bool {
	lower := strings.ToLower(name)
	for _, critical := range criticalSections[Sector(rubro)] {
		if strings.Contains(lower, strings.ToLower(critical)) {
			return true
		}
	}
	return false
}
