package ui

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/ojasva22/frontend-deployment/internal/photos"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"labelsHeading": func() string { return strings.TrimSpace(photos.MessageLabelsTemplate) },
}).ParseFS(templateFS, "templates/index.html"))

// Render escreve a página completa.
func Render(w io.Writer, page Page) error {
	return indexTemplate.ExecuteTemplate(w, "index.html", page)
}
