package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names rendered by the handlers.
const (
	PageTemplate  = "page"
	TableTemplate = "clients_table"
)

// Templates parses every embedded view. The result is meant for
// gin.Engine.SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}
