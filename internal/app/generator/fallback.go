package generator

import (
	"fmt"
	"strings"

	"github.com/diillson/cotizai-api/internal/app/analyzer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxRequirements limita a lista de requisitos reescritos
const MaxRequirements = 5

var fallbackRequirements = []string{
	"Diseño responsive para dispositivos móviles",
	"Optimización de velocidad de carga",
	"Integración con Google Analytics",
	"Certificado SSL de seguridad",
	"Sistema de gestión de contenido",
}

// FallbackTimeAnalysis escolhe o texto de prazo pela unidade citada na descrição
func FallbackTimeAnalysis(tiempo string) string {
	d := strings.ToLower(tiempo)
	switch {
	case strings.Contains(d, "mes") || strings.Contains(d, "month"):
		return "• El proyecto tiene una duración estimada de 3 meses (90 días calendario)\n• División en sprints de 2 semanas cada uno\n• Entregables cada 15 días con revisiones y ajustes\n• Seguimiento continuo del progreso del proyecto"
	case strings.Contains(d, "semana") || strings.Contains(d, "week"):
		return "• El proyecto tiene una duración estimada de 8-12 semanas\n• Entregables semanales con revisiones continuas\n• Cada fase incluye presentación de avances\n• Ajustes según requerimientos del cliente"
	case strings.Contains(d, "día") || strings.Contains(d, "day"):
		return "• El proyecto tiene una duración estimada de 60-90 días calendario\n• Entregables quincenales con seguimiento continuo\n• Revisión del progreso en tiempo real\n• Ajustes según feedback del cliente"
	default:
		return "• El proyecto tendrá un tiempo de desarrollo de 3 meses o 90 días calendario\n• División en sprints de 2 semanas cada uno\n• Entregables cada 15 días con revisiones\n• Ajustes según el feedback del cliente"
	}
}

// FallbackRequirements retorna sempre as mesmas cinco linhas
func FallbackRequirements() string {
	return strings.Join(fallbackRequirements, "\n")
}

// CleanRequirements remove asteriscos e linhas vazias e mantém no máximo cinco itens
func CleanRequirements(text string) []string {
	text = strings.ReplaceAll(text, "*", "")
	items := make([]string, 0, MaxRequirements)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
		if len(items) == MaxRequirements {
			break
		}
	}
	return items
}

var descriptions = map[analyzer.Sector]map[analyzer.Offering]string{
	analyzer.SectorInmobiliario: {
		analyzer.OfferingLanding: `En un mercado inmobiliario en constante evolución, la presencia en línea se ha convertido en un elemento indispensable para el éxito y la competitividad de las empresas del sector. En este contexto, la renovación de su página web no solo es una necesidad, sino una oportunidad estratégica para destacarse y posicionarse de manera efectiva en el mercado.

Una página web renovada con técnicas avanzadas de diseño y desarrollo no solo es una plataforma para mostrar propiedades, sino una herramienta poderosa para atraer y cautivar a clientes potenciales. Este proyecto de landing page inmobiliaria incluirá una galería de propiedades destacadas, filtros de búsqueda personalizados, formularios de contacto optimizados y un diseño responsive que garantice una experiencia excepcional en todos los dispositivos.`,

		analyzer.OfferingECommerce: `En el competitivo sector inmobiliario, la digitalización de los procesos comerciales se ha convertido en una ventaja competitiva fundamental. Este proyecto de plataforma de comercio electrónico inmobiliario representa una oportunidad única para transformar la manera en que los clientes exploran, comparan y adquieren propiedades.

La implementación de un e-commerce especializado en el sector inmobiliario permitirá a los clientes navegar por un catálogo completo de propiedades con filtros avanzados, realizar tours virtuales, comparar opciones lado a lado y completar el proceso de reserva de manera segura y eficiente. La plataforma incluirá un sistema de pagos integrado, panel de usuario personalizado y herramientas de comunicación directa con asesores.`,

		analyzer.OfferingAplicacion: `En la era de la movilidad, el acceso a información inmobiliaria desde dispositivos móviles se ha convertido en una necesidad fundamental para los clientes del sector. Este proyecto de aplicación móvil inmobiliaria representa la evolución natural de la experiencia de usuario, llevando la funcionalidad de una plataforma web completa al bolsillo de cada cliente potencial.

La aplicación incluirá búsqueda geolocalizada de propiedades, notificaciones push sobre nuevas ofertas, tours virtuales en realidad aumentada, sistema de mensajería integrado con asesores y sincronización offline para acceso sin conexión. Esta herramienta móvil se convertirá en el punto de contacto principal entre la empresa y sus clientes, facilitando la toma de decisiones y mejorando significativamente la tasa de conversión.`,
	},
	analyzer.SectorRetail: {
		analyzer.OfferingECommerce: `En el dinámico mundo del retail, la transformación digital se ha convertido en el motor principal del crecimiento y la competitividad. Este proyecto de plataforma de comercio electrónico para retail representa una oportunidad estratégica para expandir el alcance del negocio y crear una experiencia de compra excepcional que supere las expectativas de los clientes.

La implementación de un e-commerce moderno incluirá un catálogo de productos con navegación intuitiva, sistema de carrito de compras optimizado, múltiples opciones de pago seguras, programa de lealtad integrado y sistema de reviews y ratings. La plataforma estará diseñada para maximizar la conversión de visitantes en compradores, ofreciendo una experiencia de usuario fluida y atractiva que refleje la calidad y profesionalismo de la marca.`,

		analyzer.OfferingLanding: `En el competitivo sector retail, la primera impresión digital puede marcar la diferencia entre un cliente potencial y un cliente perdido. Este proyecto de landing page para retail está diseñado para capturar la atención de los visitantes desde el primer momento y convertirlos en clientes comprometidos.

La landing page incluirá un diseño visual impactante que muestre los productos más destacados, sección de ofertas especiales, testimonios de clientes satisfechos, newsletter para captación de leads y formularios de contacto optimizados. El objetivo es crear una experiencia memorable que impulse la acción del usuario y genere conversiones significativas para el negocio.`,

		analyzer.OfferingAplicacion: `En la era del comercio móvil, tener una aplicación de retail se ha convertido en una ventaja competitiva esencial. Este proyecto de aplicación móvil para retail permitirá a los clientes acceder al catálogo completo de productos, realizar compras de manera intuitiva y recibir notificaciones personalizadas sobre ofertas y novedades.

La aplicación incluirá navegación por categorías, búsqueda avanzada de productos, sistema de wishlist, historial de compras, programa de puntos y recompensas, y notificaciones push estratégicas. Esta herramienta móvil se convertirá en el canal principal de interacción con los clientes, aumentando la frecuencia de compra y fortaleciendo la lealtad hacia la marca.`,
	},
	analyzer.SectorFinanciero: {
		analyzer.OfferingLanding: `En el sector financiero, la confianza y la credibilidad son los pilares fundamentales de cualquier relación comercial. Este proyecto de landing page financiera está diseñado para transmitir estos valores esenciales mientras presenta los servicios de manera clara y profesional, estableciendo una base sólida para la confianza del cliente.

La landing page incluirá calculadoras financieras interactivas, simuladores de crédito, testimonios de clientes satisfechos, información sobre certificaciones de seguridad, centro de ayuda con FAQ y chat especializado para consultas. El diseño reflejará la seriedad y profesionalismo del sector financiero, mientras mantiene la accesibilidad y facilidad de uso que los clientes modernos esperan.`,

		analyzer.OfferingAplicacion: `En el mundo financiero digital, la seguridad y la accesibilidad son igualmente importantes. Este proyecto de aplicación financiera móvil representa la evolución de los servicios bancarios tradicionales, ofreciendo a los usuarios la capacidad de gestionar sus finanzas de manera segura y conveniente desde cualquier lugar.

La aplicación incluirá autenticación de dos factores, dashboard personalizado con resumen de productos, historial completo de transacciones, alertas y notificaciones personalizadas, generación de reportes financieros y soporte para múltiples monedas. La seguridad será la prioridad absoluta, implementando las mejores prácticas de encriptación y protección de datos para garantizar la confianza total de los usuarios.`,

		analyzer.OfferingMultiproyecto: `En el sector financiero, la complejidad de los servicios requiere una presencia digital integral que pueda manejar múltiples productos y funcionalidades bajo una marca cohesiva. Este proyecto de ecosistema web financiero representa una solución completa que integra todos los servicios de la institución en una plataforma unificada y profesional.

El ecosistema web incluirá múltiples módulos especializados: portal de clientes, calculadoras financieras avanzadas, simuladores de diferentes tipos de crédito, centro de ayuda integral, sistema de tickets de soporte, blog con contenido financiero educativo y integración con sistemas internos. La arquitectura será escalable y modular, permitiendo el crecimiento futuro y la adición de nuevos servicios sin afectar la experiencia del usuario.`,
	},
}

// FallbackDescription busca o texto na tabela rubro×servicio ou monta o parágrafo genérico
func FallbackDescription(rubro, servicio string) string {
	if d, ok := descriptions[analyzer.Sector(rubro)][analyzer.Offering(servicio)]; ok {
		return d
	}
	return fmt.Sprintf("En el sector %s, la implementación de %s representa una oportunidad estratégica para mejorar la presencia digital y optimizar la experiencia del cliente. Este proyecto consistirá en el desarrollo de una plataforma moderna que cumpla con los estándares más altos de funcionalidad, diseño y seguridad, adaptándose a las demandas específicas del mercado y las expectativas de los usuarios modernos.",
		cases.Lower(language.Spanish).String(rubro), cases.Lower(language.Spanish).String(servicio))
}
