package generation

import (
	"fmt"
	"strings"

	"github.com/desertthunder/grand/internal/models"
)

const discoveryFormat = `IMPORTANTE: Responde ÚNICAMENTE con un objeto JSON válido en este formato exacto:
{
  "content": [
    {
      "id": "1",
      "title": "Título del contenido",
      "description": "Descripción del contenido",
      "type": "podcast",
      "duration": "45 min",
      "relevance": "Por qué es relevante"
    }
  ]
}

No incluyas texto adicional, solo el JSON.`

const eventsFormat = `IMPORTANTE: Responde ÚNICAMENTE con un objeto JSON válido en este formato exacto:
{
  "events": [
    {
      "id": "1",
      "title": "Título del evento",
      "description": "Descripción del evento",
      "type": "bingo",
      "date": "Lunes 20 de Enero",
      "time": "10:00 - 12:00",
      "location": "Centro Comunitario San Martín, Av. Corrientes 1234",
      "distance": "A 500m"
    }
  ]
}

No incluyas texto adicional, solo el JSON.`

const initialFormat = `Formato de respuesta JSON:
{
  "videos": [
    {
      "title": "Título del video",
      "channel": "Nombre del canal",
      "duration": "15 min",
      "reason": "Por qué le gustaría este video",
      "url": "https://youtube.com/..."
    }
  ],
  "podcasts": [
    {
      "title": "Título del podcast",
      "host": "Nombre del host",
      "duration": "30 min",
      "reason": "Por qué le gustaría este podcast",
      "platform": "Spotify"
    }
  ],
  "events": [
    {
      "title": "Nombre del evento",
      "location": "Lugar específico",
      "date": "Fecha",
      "time": "Horario",
      "reason": "Por qué le interesaría",
      "type": "bingo|taller|misa|social"
    }
  ]
}`

func discoveryPrompt(req DiscoverRequest) string {
	var b strings.Builder
	b.WriteString("Eres un asistente especializado en recomendar contenido multimedia para adultos mayores.\n\n")
	fmt.Fprintf(&b, "Perfil:\n- Nombre: %s\n- Intereses: %s\n\n", req.Name, req.Interests)

	if q := strings.TrimSpace(req.SearchQuery); q != "" {
		fmt.Fprintf(&b, "El usuario está buscando: %q\n\n", q)
		fmt.Fprintf(&b, "Genera %d recomendaciones de contenido que coincidan con la búsqueda y sean apropiadas para %s. ", SearchCount, req.Name)
		b.WriteString("Incluye una mezcla de podcasts, videos, música y audiolibros.\n\n")
	} else {
		fmt.Fprintf(&b, "Genera %d recomendaciones personalizadas de contenido multimedia. Incluye una mezcla equilibrada de:\n", DiscoveryCount)
		b.WriteString("- 3 podcasts\n- 3 videos\n- 3 música/álbumes\n- 3 audiolibros\n\n")
	}

	b.WriteString("Para cada recomendación incluye:\n")
	b.WriteString("- Título específico y realista\n")
	b.WriteString("- Descripción breve (2-3 oraciones)\n")
	b.WriteString(`- Tipo: "podcast", "video", "music", o "audiobook"` + "\n")
	b.WriteString("- Duración estimada\n")
	fmt.Fprintf(&b, "- Por qué es relevante para %s (1 oración)\n\n", req.Name)
	b.WriteString(discoveryFormat)
	return b.String()
}

func eventsPrompt(req EventsRequest) string {
	var b strings.Builder
	b.WriteString("Eres un asistente especializado en encontrar eventos y actividades para adultos mayores.\n\n")
	fmt.Fprintf(&b, "Perfil:\n- Nombre: %s\n- Intereses: %s\n- Movilidad: %s\n- Ubicación: %s\n\n",
		req.Name, req.Interests, req.Mobility, req.Location)

	fmt.Fprintf(&b, "Genera %d eventos y actividades cercanas apropiadas para %s. Incluye una mezcla de:\n", EventsCount, req.Name)
	b.WriteString("- Bingo y juegos\n- Talleres (manualidades, cocina, arte)\n- Misas y actividades religiosas\n")
	b.WriteString("- Eventos sociales (bailes, reuniones)\n- Ejercicio y actividades físicas adaptadas\n\n")

	b.WriteString("Para cada evento incluye:\n")
	b.WriteString("- Título específico\n- Descripción breve (2 oraciones)\n")
	b.WriteString(`- Tipo: "bingo", "taller", "misa", "social", o "ejercicio"` + "\n")
	b.WriteString(`- Fecha (próximos 7 días, formato: "Lunes 20 de Enero")` + "\n")
	b.WriteString(`- Hora (formato: "10:00 - 12:00")` + "\n")
	fmt.Fprintf(&b, "- Ubicación específica (nombre del lugar y dirección en %s)\n", req.Location)
	b.WriteString(`- Distancia aproximada (ej: "A 500m", "A 1.2km")` + "\n\n")
	fmt.Fprintf(&b, "Considera la movilidad de %s (%s) al sugerir eventos.\n\n", req.Name, req.Mobility)
	b.WriteString(eventsFormat)
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func initialPrompt(p *models.ElderProfile) string {
	var b strings.Builder
	b.WriteString("Sos un asistente experto en recomendar contenido para adultos mayores.\n\n")
	b.WriteString("Perfil del adulto mayor:\n")
	fmt.Fprintf(&b, "- Nombre: %s\n- Edad: %s años\n- Intereses: %s\n- Movilidad: %s\n", p.Name, p.Age, p.Interests, p.Mobility)
	fmt.Fprintf(&b, "- Rutina: %s\n", orDefault(p.Schedule, "No especificada"))
	fmt.Fprintf(&b, "- Preferencias: %s\n\n", orDefault(p.Preferences, "No especificadas"))

	b.WriteString("Tu tarea es generar contenido personalizado en español (rioplatense neutral) para esta persona:\n\n")
	fmt.Fprintf(&b, "1. %d videos de YouTube reales y específicos (con títulos, canales, duración aproximada y razón por la que le gustaría)\n", InitialCount)
	fmt.Fprintf(&b, "2. %d podcasts de Spotify reales (con títulos, hosts, duración y razón)\n", InitialCount)
	fmt.Fprintf(&b, "3. %d eventos locales cercanos (actividades como bingo, talleres, misa, tejido, etc. basados en sus intereses)\n\n", InitialCount)
	b.WriteString(initialFormat)
	b.WriteString("\n\nAsegurate de que todo el contenido sea apropiado, accesible y relevante para sus intereses.")
	return b.String()
}

func recommendationsPrompt(p *models.ElderProfile) string {
	var b strings.Builder
	b.WriteString("Eres un asistente especializado en crear recomendaciones personalizadas para adultos mayores.\n\n")
	b.WriteString("Información del perfil:\n")
	fmt.Fprintf(&b, "- Nombre: %s\n- Edad: %s años\n- Movilidad: %s\n- Intereses y hobbies: %s\n", p.Name, p.Age, p.Mobility, p.Interests)
	if p.Schedule != "" {
		fmt.Fprintf(&b, "- Rutina diaria: %s\n", p.Schedule)
	}
	if p.Preferences != "" {
		fmt.Fprintf(&b, "- Preferencias adicionales: %s\n", p.Preferences)
	}

	b.WriteString("\nGenera recomendaciones personalizadas en las siguientes categorías:\n\n")
	b.WriteString("1. Contenido multimedia (podcasts, videos, música, audiolibros)\n")
	b.WriteString("2. Actividades físicas adaptadas a su movilidad\n")
	b.WriteString("3. Eventos sociales y comunitarios\n")
	b.WriteString("4. Talleres y clases que podrían interesarle\n\n")
	fmt.Fprintf(&b, "Para cada categoría, sugiere 3-4 opciones específicas y explica brevemente por qué serían adecuadas para %s.\n\n", p.Name)
	b.WriteString("Formato de respuesta: texto claro y organizado por categorías.")
	return b.String()
}
