package generation

import (
	"fmt"
	"time"

	"github.com/desertthunder/grand/internal/media"
	"github.com/desertthunder/grand/internal/models"
)

// FallbackDiscovery is the sample shown when discovery generation fails.
func FallbackDiscovery() []models.DiscoveryItem {
	return []models.DiscoveryItem{
		{
			ID:          "1",
			Title:       "Historias de tango argentino",
			Description: "Podcast que cuenta las historias detrás de los tangos más famosos y sus compositores. Incluye anécdotas de Gardel, Piazzolla y otros grandes.",
			Type:        models.KindPodcast,
			Duration:    "35 min",
			Relevance:   "Conecta con la cultura argentina y la música tradicional",
		},
		{
			ID:          "2",
			Title:       "Recetas de la abuela",
			Description: "Serie de videos cortos donde cocineros preparan recetas tradicionales argentinas paso a paso, con tips y secretos de cocina.",
			Type:        models.KindVideo,
			Duration:    "20 min",
			Relevance:   "Combina el interés por la cocina con la nostalgia de recetas tradicionales",
		},
		{
			ID:          "3",
			Title:       "Grandes éxitos del folklore",
			Description: "Colección de música folklórica argentina con Mercedes Sosa, Los Chalchaleros y otros artistas clásicos.",
			Type:        models.KindMusic,
			Duration:    "2 horas",
			Relevance:   "Música tradicional que evoca recuerdos y emociones positivas",
		},
		{
			ID:          "4",
			Title:       "Cuentos de Borges narrados",
			Description: "Audiolibro con los cuentos más famosos de Jorge Luis Borges narrados con voz clara y pausada.",
			Type:        models.KindAudiobook,
			Duration:    "3 horas",
			Relevance:   "Literatura argentina clásica en formato accesible",
		},
		{
			ID:          "5",
			Title:       "Ejercicios para la memoria",
			Description: "Podcast con ejercicios mentales, acertijos y técnicas para mantener la mente activa de forma entretenida.",
			Type:        models.KindPodcast,
			Duration:    "25 min",
			Relevance:   "Estimulación cognitiva de manera divertida y accesible",
		},
		{
			ID:          "6",
			Title:       "Documentales de naturaleza",
			Description: "Serie de documentales sobre la naturaleza argentina: cataratas, glaciares, fauna y flora del país.",
			Type:        models.KindVideo,
			Duration:    "45 min",
			Relevance:   "Contenido visual relajante y educativo sobre Argentina",
		},
	}
}

// FallbackEvents is the sample shown when events generation fails.
func FallbackEvents() []models.Event {
	return []models.Event{
		{
			ID:          "1",
			Title:       "Bingo de la tarde",
			Description: "Bingo tradicional con premios y merienda incluida. Ambiente familiar y amigable para todas las edades.",
			Type:        "bingo",
			Date:        "Martes 21 de Enero",
			Time:        "15:00 - 17:00",
			Location:    "Club de Jubilados, Av. Rivadavia 5678",
			Distance:    "A 800m",
		},
		{
			ID:          "2",
			Title:       "Taller de tejido",
			Description: "Aprende nuevas técnicas de tejido y comparte con otras personas. Materiales incluidos para principiantes.",
			Type:        "taller",
			Date:        "Miércoles 22 de Enero",
			Time:        "10:00 - 12:00",
			Location:    "Centro Cultural del Barrio, Calle Falsa 123",
			Distance:    "A 1.2km",
		},
		{
			ID:          "3",
			Title:       "Misa dominical",
			Description: "Misa tradicional seguida de café y charla comunitaria. Todos son bienvenidos.",
			Type:        "misa",
			Date:        "Domingo 26 de Enero",
			Time:        "11:00 - 12:30",
			Location:    "Parroquia San José, Av. San Martín 890",
			Distance:    "A 600m",
		},
		{
			ID:          "4",
			Title:       "Baile de tango",
			Description: "Tarde de tango con orquesta en vivo. No es necesario saber bailar, hay instructores disponibles.",
			Type:        "social",
			Date:        "Viernes 24 de Enero",
			Time:        "18:00 - 21:00",
			Location:    "Salón Comunitario La Milonga, Calle Corrientes 2345",
			Distance:    "A 1.5km",
		},
		{
			ID:          "5",
			Title:       "Gimnasia suave",
			Description: "Clase de ejercicios adaptados para adultos mayores. Mejora flexibilidad y equilibrio de forma segura.",
			Type:        "ejercicio",
			Date:        "Lunes 20 de Enero",
			Time:        "09:00 - 10:00",
			Location:    "Plaza del Barrio, Parque Centenario",
			Distance:    "A 400m",
		},
		{
			ID:          "6",
			Title:       "Taller de cocina tradicional",
			Description: "Aprende a preparar recetas argentinas clásicas. Degustación incluida al finalizar la clase.",
			Type:        "taller",
			Date:        "Jueves 23 de Enero",
			Time:        "14:00 - 16:00",
			Location:    "Centro de Día Municipal, Av. Belgrano 3456",
			Distance:    "A 900m",
		},
	}
}

// FallbackInitial is the sample plan used when initial content generation fails.
func FallbackInitial() *models.GeneratedContent {
	return &models.GeneratedContent{
		Videos: []models.Video{
			{Title: "Historia del Tango Argentino - Documental Completo", Channel: "Historia Argentina", Duration: "45 min", Reason: "Combina su amor por el tango con historia cultural", URL: "https://youtube.com/watch?v=example1"},
			{Title: "Recetas Tradicionales Uruguayas", Channel: "Cocina del Río de la Plata", Duration: "20 min", Reason: "Recetas de su región que puede disfrutar", URL: "https://youtube.com/watch?v=example2"},
			{Title: "Peñarol: Los Mejores Momentos Históricos", Channel: "Fútbol Uruguayo", Duration: "30 min", Reason: "Revive los mejores momentos de su equipo favorito", URL: "https://youtube.com/watch?v=example3"},
			{Title: "Técnicas de Tejido para Principiantes", Channel: "Manualidades con Amor", Duration: "15 min", Reason: "Aprende nuevas técnicas para su hobby favorito", URL: "https://youtube.com/watch?v=example4"},
			{Title: "Música Clásica Rioplatense", Channel: "Música del Sur", Duration: "1 hora", Reason: "Música relajante de su región", URL: "https://youtube.com/watch?v=example5"},
		},
		Podcasts: []models.Podcast{
			{Title: "Historias del Barrio", Host: "María González", Duration: "35 min", Reason: "Relatos nostálgicos de la vida en Montevideo", Platform: "Spotify"},
			{Title: "Tango y Milonga", Host: "Carlos Gardel Jr.", Duration: "40 min", Reason: "Todo sobre la música que ama", Platform: "Spotify"},
			{Title: "Recetas de la Abuela", Host: "Ana María", Duration: "25 min", Reason: "Cocina tradicional con historias familiares", Platform: "Spotify"},
			{Title: "Fútbol de Antaño", Host: "Roberto Fontanarrosa", Duration: "45 min", Reason: "Historias del fútbol uruguayo clásico", Platform: "Spotify"},
			{Title: "Manualidades y Tejido", Host: "Laura Pérez", Duration: "30 min", Reason: "Tips y técnicas para tejer", Platform: "Spotify"},
		},
		Events: []models.Event{
			{Title: "Bingo Comunitario", Location: "Centro Vecinal Pocitos", Date: "Todos los jueves", Time: "15:00", Reason: "Actividad social divertida en su barrio", Type: "bingo"},
			{Title: "Taller de Tejido", Location: "Casa de la Cultura", Date: "Martes y viernes", Time: "10:00", Reason: "Comparte su pasión con otras personas", Type: "taller"},
			{Title: "Misa Dominical", Location: "Parroquia San José", Date: "Todos los domingos", Time: "11:00", Reason: "Encuentro espiritual semanal", Type: "misa"},
			{Title: "Tarde de Tango", Location: "Club Social Montevideo", Date: "Sábados", Time: "17:00", Reason: "Disfruta de música en vivo de tango", Type: "social"},
			{Title: "Encuentro de Cocina Tradicional", Location: "Centro Comunitario", Date: "Primer miércoles del mes", Time: "14:00", Reason: "Comparte y aprende recetas tradicionales", Type: "taller"},
		},
		Source:      models.SourceFallback,
		GeneratedAt: time.Now(),
	}
}

const sampleVideoID = "dQw4w9WgXcQ"

// PlaceholderArt is the album art used when no cover is known.
const PlaceholderArt = "/placeholder.svg"

// FallbackPlan is the home plan stored when the backend listing fails. name personalises two reasons.
func FallbackPlan(name string) *models.GeneratedContent {
	video := func(title, channel, duration, reason string) models.Video {
		return models.Video{
			Title:     title,
			Channel:   channel,
			Duration:  duration,
			Reason:    reason,
			URL:       media.YouTubeWatchURL(sampleVideoID),
			Thumbnail: media.YouTubeThumbnail(sampleVideoID, media.QualityMaxRes),
			VideoID:   sampleVideoID,
		}
	}
	podcast := func(title, host, duration, reason string) models.Podcast {
		return models.Podcast{Title: title, Host: host, Duration: duration, Reason: reason, Platform: "Spotify", AlbumArt: PlaceholderArt}
	}

	return &models.GeneratedContent{
		Videos: []models.Video{
			video("Historia del tango argentino - Documental completo", "Historia Argentina", "45:20",
				fmt.Sprintf("Basado en el interés de %s en la historia y la música", name)),
			video("Recetas tradicionales uruguayas paso a paso", "Cocina del Río de la Plata", "28:15",
				"Contenido sobre cocina tradicional de la región"),
			video("Mejores jugadas de Peñarol - Clásicos históricos", "Fútbol Uruguayo", "35:40",
				fmt.Sprintf("Contenido deportivo relacionado con los intereses de %s", name)),
		},
		Podcasts: []models.Podcast{
			podcast("Historias del Río de la Plata", "Radio Nacional", "42 min", "Podcast sobre historia regional"),
			podcast("Música de nuestra tierra", "Folklore y Tradición", "38 min", "Contenido musical tradicional"),
			podcast("Charlas de café - Historias de vida", "Conversaciones", "50 min", "Podcast conversacional sobre experiencias de vida"),
		},
		Events: []models.Event{
			{Title: "Misa dominical", Location: "Parroquia del barrio", Date: "Domingo 20 Oct", Time: "10:00", Reason: "Actividad religiosa semanal", Type: "Religioso"},
			{Title: "Bingo comunitario", Location: "Centro de jubilados", Date: "Miércoles 23 Oct", Time: "15:00", Reason: "Actividad social recreativa", Type: "Social"},
			{Title: "Taller de tejido", Location: "Club del barrio", Date: "Jueves 24 Oct", Time: "16:00", Reason: "Actividad manual y social", Type: "Taller"},
		},
		Source:      models.SourceFallback,
		GeneratedAt: time.Now(),
	}
}
