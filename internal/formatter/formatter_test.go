package formatter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/grand/internal/models"
	th "github.com/desertthunder/grand/internal/testing"
)

func liked(v bool) *bool { return &v }

func sampleReport() Report {
	plan := &models.GeneratedContent{
		Videos: []models.Video{
			{Title: "Historia del tango", Channel: "Historia Argentina", Duration: "45:20", Reason: "Le gusta el tango", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Thumbnail: "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"},
		},
		Podcasts: []models.Podcast{
			{Title: "Historias del Río de la Plata", Host: "Radio Nacional", Duration: "42 min", Reason: "Historia regional", Platform: "Spotify"},
		},
		Events: []models.Event{
			{Title: "Bingo comunitario", Location: "Centro de jubilados", Date: "Miércoles 23 Oct", Time: "15:00", Type: "Social"},
		},
		Source:      models.SourceLive,
		GeneratedAt: time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC),
	}
	return Report{
		Profile: &models.ElderProfile{Name: "Nélida", Age: "78", Interests: "tango, bingo", Mobility: models.MobilityBuena, UpdateFrequency: models.FrequencyWeekly},
		Plan:    plan,
		Feedback: models.FeedbackMap{
			models.FeedbackKey("Historia del tango", 0): {Viewed: true, Liked: liked(true)},
		},
		ExportedAt: time.Date(2025, 10, 21, 9, 0, 0, 0, time.UTC),
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleReport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Position,Kind,Title,Creator,Duration,When,Reason,Link,Viewed,Liked") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "0,video,Historia del tango,Historia Argentina,45:20,,Le gusta el tango,https://www.youtube.com/watch?v=dQw4w9WgXcQ,true,sí") {
			t.Errorf("CSV missing video row, got: %s", output)
		}
		if !strings.Contains(output, "2,event,Bingo comunitario,Centro de jubilados,,Miércoles 23 Oct 15:00,,,false,") {
			t.Errorf("CSV missing event row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleReport(), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Plan de Nélida",
				"**Intereses**: tango, bingo",
				"## Videos",
				"1. **Historia del tango** - Historia Argentina [45:20] ✓",
				"## Eventos",
				"1. **Bingo comunitario** - Centro de jubilados (Miércoles 23 Oct 15:00)",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got:\n%s", want, output)
				}
			}
			if strings.Contains(output, "Contenido de ejemplo") {
				t.Error("live plan should not carry the sample notice")
			}
		})

		t.Run("with cover image and fallback plan", func(t *testing.T) {
			r := sampleReport()
			r.Plan.Source = models.SourceFallback
			r.Plan.Podcasts = nil

			data, err := ExportToMarkdown(r, "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			if !strings.Contains(output, "![Portada](cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
			if !strings.Contains(output, "Contenido de ejemplo") {
				t.Errorf("Markdown missing sample notice")
			}
			if !strings.Contains(output, "## Podcasts\n\n_Sin elementos_") {
				t.Errorf("Markdown missing empty section marker, got:\n%s", output)
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleReport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"Plan: Nélida", "Origen: live", "Elementos: 3", "2. [podcast] Radio Nacional - Historias del Río de la Plata"} {
			if !strings.Contains(output, want) {
				t.Errorf("Text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("Empty report", func(t *testing.T) {
		data, err := ExportToText(Report{})
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if !strings.Contains(string(data), "Plan: Sin perfil") {
			t.Errorf("unexpected output %s", data)
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(sampleReport())
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		var m Metadata
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("invalid metadata json: %v", err)
		}
		if m.Profile.Name != "Nélida" || m.Videos != 1 || m.Podcasts != 1 || m.Events != 1 || m.Source != models.SourceLive {
			t.Errorf("unexpected metadata %+v", m)
		}
	})

	t.Run("CoverURL", func(t *testing.T) {
		if got := CoverURL(sampleReport()); got != "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
			t.Errorf("CoverURL() = %q", got)
		}
		if got := CoverURL(Report{}); got != "" {
			t.Errorf("CoverURL() without plan = %q", got)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil || string(data) != "jpegdata" {
			t.Errorf("DownloadImage() = %q, %v", data, err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "local")
		result, err := WriteCSVExport(sampleReport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, result.ItemsFile)
		th.AssertFileExists(t, result.MetadataFile)
		if !strings.HasSuffix(result.ItemsFile, "local_items.csv") {
			t.Errorf("unexpected items file %s", result.ItemsFile)
		}
		if !strings.Contains(th.MustReadFile(t, result.MetadataFile), `"name": "Nélida"`) {
			t.Errorf("metadata file missing profile")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithCover", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("jpegdata"))
			}))
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "plan")
			result, err := WriteMarkdownExport(sampleReport(), dir, server.URL)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			th.AssertDirExists(t, result.Directory)
			th.AssertFileExists(t, filepath.Join(dir, "README.md"))
			th.AssertFileExists(t, result.CoverImage)
			if len(result.Files) != 2 {
				t.Errorf("expected cover and readme, got %v", result.Files)
			}
			if !strings.Contains(th.MustReadFile(t, filepath.Join(dir, "README.md")), "![Portada](cover.jpg)") {
				t.Error("README should reference the downloaded cover")
			}
		})

		t.Run("CoverFailureIsNotFatal", func(t *testing.T) {
			server := httptest.NewServer(http.NotFoundHandler())
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "plan")
			result, err := WriteMarkdownExport(sampleReport(), dir, server.URL)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if result.CoverImage != "" || len(result.Files) != 1 {
				t.Errorf("expected readme only, got %+v", result)
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.txt")
		got, err := WriteTextExport(sampleReport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		th.AssertFileExists(t, got)
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		if err := WriteManifest(map[string]int{"total": 2}, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}
		if !strings.Contains(th.MustReadFile(t, path), `"total": 2`) {
			t.Error("manifest missing content")
		}
	})
}
