// Package views holds the HTML pages, embedded in the binary.
package views

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var files embed.FS

// Raw HTML in the sheet is escaped: WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func RenderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}

	return template.HTML(buf.String())
}

// Parse loads every page. Pages are named after their file (login.html, ...).
func Parse() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"renderMarkdown": RenderMarkdown,
	}).ParseFS(files, "templates/*.html")
}
