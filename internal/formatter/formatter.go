// package formatter exports a caregiver's plan to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
)

// Report is everything an export describes: who the plan is for, the plan and what was played.
type Report struct {
	Profile    *models.ElderProfile
	Plan       *models.GeneratedContent
	Feedback   models.FeedbackMap
	ExportedAt time.Time
}

func (r Report) name() string {
	if r.Profile == nil || r.Profile.Name == "" {
		return "Sin perfil"
	}
	return r.Profile.Name
}

func (r Report) items() []models.ContentItem {
	if r.Plan == nil {
		return nil
	}
	return r.Plan.Items()
}

// row flattens one plan item into display columns.
type row struct {
	creator  string
	duration string
	when     string
	reason   string
	link     string
}

func describe(item models.ContentItem) row {
	switch item.Kind {
	case models.KindVideo:
		v := item.Video
		return row{creator: v.Channel, duration: v.Duration, reason: v.Reason, link: v.URL}
	case models.KindPodcast:
		p := item.Podcast
		return row{creator: p.Host, duration: p.Duration, reason: p.Reason, link: p.URL}
	default:
		e := item.Event
		when := e.Date
		if e.Time != "" {
			when = e.Date + " " + e.Time
		}
		return row{creator: e.Location, when: when, reason: e.Reason}
	}
}

func likedString(fb models.Feedback) string {
	if fb.Liked == nil {
		return ""
	}
	if *fb.Liked {
		return "sí"
	}
	return "no"
}

// ExportToCSV converts a plan to CSV format with columns: Position, Kind, Title, Creator, Duration, When, Reason, Link, Viewed, Liked
func ExportToCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Kind", "Title", "Creator", "Duration", "When", "Reason", "Link", "Viewed", "Liked"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range r.items() {
		d := describe(item)
		fb := r.Feedback[item.FeedbackKey()]
		record := []string{
			strconv.Itoa(item.Position),
			string(item.Kind),
			item.Title(),
			d.creator,
			d.duration,
			d.when,
			d.reason,
			d.link,
			strconv.FormatBool(fb.Viewed),
			likedString(fb),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a plan to Markdown format with an optional cover image
func ExportToMarkdown(r Report, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Plan de %s\n\n", r.name()))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Portada](%s)\n\n", imageFilename))
	}

	if r.Plan != nil && r.Plan.IsFallback() {
		buf.WriteString("> Contenido de ejemplo: la generación en vivo no estuvo disponible.\n\n")
	}

	if r.Profile != nil {
		if r.Profile.Interests != "" {
			buf.WriteString(fmt.Sprintf("**Intereses**: %s\n", r.Profile.Interests))
		}
		buf.WriteString(fmt.Sprintf("**Movilidad**: %s\n", r.Profile.Mobility))
		buf.WriteString(fmt.Sprintf("**Actualización**: %s\n\n", r.Profile.UpdateFrequency))
	}

	sections := []struct {
		kind  models.Kind
		title string
	}{
		{models.KindVideo, "Videos"},
		{models.KindPodcast, "Podcasts"},
		{models.KindEvent, "Eventos"},
	}

	items := r.items()
	for _, section := range sections {
		buf.WriteString(fmt.Sprintf("## %s\n\n", section.title))
		n := 0
		for _, item := range items {
			if item.Kind != section.kind {
				continue
			}
			n++
			d := describe(item)
			line := fmt.Sprintf("%d. **%s**", n, item.Title())
			if d.creator != "" {
				line += " - " + d.creator
			}
			if d.duration != "" {
				line += fmt.Sprintf(" [%s]", d.duration)
			}
			if d.when != "" {
				line += fmt.Sprintf(" (%s)", d.when)
			}
			if r.Feedback[item.FeedbackKey()].Viewed {
				line += " ✓"
			}
			buf.WriteString(line + "\n")
			if d.reason != "" {
				buf.WriteString(fmt.Sprintf("   %s\n", d.reason))
			}
		}
		if n == 0 {
			buf.WriteString("_Sin elementos_\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a plan to plain text format
func ExportToText(r Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Plan: %s\n", r.name()))
	if r.Plan != nil && r.Plan.Source != "" {
		buf.WriteString(fmt.Sprintf("Origen: %s\n", r.Plan.Source))
	}
	items := r.items()
	buf.WriteString(fmt.Sprintf("Elementos: %d\n\n", len(items)))

	for _, item := range items {
		d := describe(item)
		buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s\n", item.Position+1, item.Kind, d.creator, item.Title()))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// Metadata is the JSON summary written next to CSV exports.
type Metadata struct {
	Profile     *models.ElderProfile `json:"profile,omitempty"`
	Source      models.Source        `json:"source,omitempty"`
	GeneratedAt time.Time            `json:"generatedAt,omitzero"`
	ExportedAt  time.Time            `json:"exportedAt,omitzero"`
	Videos      int                  `json:"videos"`
	Podcasts    int                  `json:"podcasts"`
	Events      int                  `json:"events"`
}

// ToMetadataJSON generates a JSON representation of the report without its items
func ToMetadataJSON(r Report) ([]byte, error) {
	m := Metadata{Profile: r.Profile, ExportedAt: r.ExportedAt}
	if r.Plan != nil {
		m.Source = r.Plan.Source
		m.GeneratedAt = r.Plan.GeneratedAt
		m.Videos = len(r.Plan.Videos)
		m.Podcasts = len(r.Plan.Podcasts)
		m.Events = len(r.Plan.Events)
	}
	return shared.MarshalJSON(m, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ItemsFile    string
	MetadataFile string
}

// WriteCSVExport exports a plan to CSV format with accompanying metadata JSON file.
//
// Creates {base}_items.csv and {base}_metadata.json
func WriteCSVExport(r Report, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "plan"
	}

	csvData, err := ExportToCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	itemsFile := baseFilepath + "_items.csv"
	if err := os.WriteFile(itemsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ItemsFile:    itemsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// CoverURL picks the first video thumbnail of the plan, or "".
func CoverURL(r Report) string {
	if r.Plan == nil {
		return ""
	}
	for _, v := range r.Plan.Videos {
		if v.Thumbnail != "" {
			return v.Thumbnail
		}
	}
	return ""
}

// WriteMarkdownExport exports a plan to Markdown format in a dedicated directory.
//
// The imageURL parameter is optional - if provided, attempts to download it as the cover.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(r Report, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "plan"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(r, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a plan to plain text format. Defaults to plan.txt as the filename.
func WriteTextExport(r Report, path string) (string, error) {
	if path == "" {
		path = "plan.txt"
	}

	textData, err := ExportToText(r)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
