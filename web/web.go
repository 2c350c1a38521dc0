// Package web holds the server-rendered admin and account pages.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006 15:04")
	},
	"datePtr": func(t *time.Time) string {
		if t == nil {
			return "never"
		}
		return t.Format("2 Jan 2006 15:04")
	},
}

// Templates parses every page once. Pages are looked up by file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
