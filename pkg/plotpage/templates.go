package plotpage

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates holds every embedded template, parsed at init.
var pageTemplates = template.Must(template.New("plotpage").ParseFS(templateFS, "templates/*.html"))

// execute runs one embedded template and returns its markup.
func execute(name string, data any) (template.HTML, error) {
	var out strings.Builder

	if err := pageTemplates.ExecuteTemplate(&out, name, data); err != nil {
		return "", fmt.Errorf("plotpage: %s: %w", name, err)
	}

	return template.HTML(out.String()), nil //nolint:gosec // output of html/template is already escaped.
}

// pageData fills page.html.
type pageData struct {
	Title       string
	ProjectName string
	Theme       string
	Vars        template.CSS
	Header      template.HTML
	Content     template.HTML
	Scripts     template.HTML
	Year        int
}

// headerData fills header.html.
type headerData struct {
	Title        string
	Description  string
	ToggleAction string
	Icon         string
	Label        string
}

// sectionData holds data for one chart card.
type sectionData struct {
	MountID  string
	Title    string
	Chart    template.HTML
	ImageURI template.URL
}
