package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Customizer is the page template of the umbrella customizer
var Customizer = template.Must(template.ParseFS(files, "customizer.html"))
