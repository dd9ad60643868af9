// Package web embeds the HTML templates and browser assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/geocoder89/foodshelter/internal/domain"
	"github.com/geocoder89/foodshelter/internal/domain/donation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page with the shared FuncMap. Page templates are
// addressed by file name, e.g. "dashboard.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Static serves the contents of static/ at the mount root.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"date":  formatDate,
		"deref": deref,
		"money": donation.FormatAmount,
		"coord": coord,
	}
}

// formatDate accepts time.Time or *time.Time; nil and zero render empty.
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(domain.DateLayout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(domain.DateLayout)
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func coord(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.5f", *v)
}
