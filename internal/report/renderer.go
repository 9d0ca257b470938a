package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/datsun80zx/stockdesk/internal/importer"
	"github.com/datsun80zx/stockdesk/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// ImportReport is the data behind import.html
type ImportReport struct {
	GeneratedAt time.Time
	Result      *importer.Result
}

// HistoryReport is the data behind history.html
type HistoryReport struct {
	GeneratedAt time.Time
	Runs        []store.ImportRun
}

// Renderer handles report template rendering
type Renderer struct {
	templates *template.Template
}

// NewRenderer creates a new template renderer
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"formatPercent":  formatPercent,
		"formatDate":     formatDate,
		"formatDuration": formatDuration,
		"truncate":       truncate,
		"add":            func(a, b int) int { return a + b },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

// RenderImport renders the outcome of one import run to HTML
func (r *Renderer) RenderImport(w io.Writer, result *importer.Result) error {
	return r.templates.ExecuteTemplate(w, "import.html", ImportReport{
		GeneratedAt: time.Now(),
		Result:      result,
	})
}

// RenderHistory renders stored import runs to HTML
func (r *Renderer) RenderHistory(w io.Writer, runs []store.ImportRun) error {
	return r.templates.ExecuteTemplate(w, "history.html", HistoryReport{
		GeneratedAt: time.Now(),
		Runs:        runs,
	})
}

// formatPercent formats part/total as a percentage
func formatPercent(part, total int) string {
	if total == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(total))
}

// formatDate formats a time as YYYY-MM-DD HH:MM
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02 15:04")
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// truncate shortens a string with ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
