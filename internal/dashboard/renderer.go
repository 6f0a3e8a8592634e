package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// Renderer handles rendering responses to HTTP clients.
// This interface follows Interface Segregation Principle (SOLID-I).
type Renderer interface {
	RenderHealth(w io.Writer) error
	RenderWeekly(w io.Writer, overview *domain.WeeklyOverview) error
}

var (
	templateFuncMap = template.FuncMap{
		"ago": func(date time.Time) string {
			return humanize.Time(date)
		},
		"weekday": func(day string) string {
			t, err := time.Parse(domain.DayLayout, day)
			if err != nil {
				return day
			}
			return t.Format("Mon 02 Jan")
		},
	}

	//go:embed _templates
	templateFs embed.FS
)

// HTMLRenderer implements Renderer with the embedded HTML templates.
type HTMLRenderer struct {
	templates *template.Template
}

// NewHTMLRenderer parses the embedded templates.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	subFs, err := fs.Sub(templateFs, "_templates")
	if err != nil {
		return nil, fmt.Errorf("can not load subdirectory: %w", err)
	}

	tpl, err := template.New("templates").Funcs(templateFuncMap).ParseFS(subFs, "*.html")
	if err != nil {
		return nil, fmt.Errorf("can not load templates: %w", err)
	}

	return &HTMLRenderer{templates: tpl}, nil
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

// RenderWeekly renders the weekly overview page.
func (r *HTMLRenderer) RenderWeekly(w io.Writer, overview *domain.WeeklyOverview) error {
	return r.templates.ExecuteTemplate(w, "weekly.html", overview)
}
