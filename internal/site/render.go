// Package site renders an assembled checklist into a single self-contained
// HTML page and writes it to the output directory.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/JakeFAU/birdseye/internal/checklist"
)

// DefaultTitle heads the page when no title is configured.
const DefaultTitle = "Bird Checklist"

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Page is everything the template needs.
type Page struct {
	Title        string
	ChecklistURL string
	Location     string
	Date         string
	Species      []checklist.SpeciesEntry
	GeneratedAt  time.Time
}

// NewPage builds a Page from an assembled summary.
func NewPage(summary checklist.Summary, checklistURL string) Page {
	return Page{
		Title:        DefaultTitle,
		ChecklistURL: checklistURL,
		Location:     summary.Location,
		Date:         summary.Date,
		Species:      summary.Species,
	}
}

// Render executes the page template. html/template escapes every
// interpolated name, count and URL for its context.
func Render(page Page) ([]byte, error) {
	if page.Title == "" {
		page.Title = DefaultTitle
	}
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "index.html.tmpl", page); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
