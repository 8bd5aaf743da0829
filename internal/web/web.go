// Pages and assets served by the transport layer, embedded into the binary.
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Templates parses every page template with the helpers pages rely on.
func Templates() (*template.Template, error) {
	funcs := template.FuncMap{
		// a Caser keeps state, so each call gets its own
		"title": func(s string) string {
			return cases.Title(language.English).String(s)
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// Static is the asset tree mounted under /static.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
