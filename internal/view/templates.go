package view

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/gasdesk/gasdesk/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// NewEngine parses the embedded templates at startup.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02-01-2006")
		},
		"money": func(v any) string {
			switch n := v.(type) {
			case float64:
				return strconv.FormatFloat(n, 'f', 2, 64)
			case string:
				f, err := strconv.ParseFloat(n, 64)
				if err != nil {
					return "0.00"
				}
				return strconv.FormatFloat(f, 'f', 2, 64)
			default:
				return "0.00"
			}
		},
		"orDash": func(s string) string {
			if s == "" {
				return "N/A"
			}
			return s
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template into w.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}
