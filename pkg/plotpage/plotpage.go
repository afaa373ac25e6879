// Package plotpage renders the dashboard document as a standalone HTML page:
// theme CSS variables from the active palette, a header with the theme
// toggle, and one card per chart mount.
package plotpage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

// EChartsAssetURL is the ECharts runtime loaded by pages that carry
// ECharts fragments.
const EChartsAssetURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

const (
	defaultTitle       = "Developer Survey"
	defaultDescription = "Tools and technologies developers reach for."
	defaultProject     = "surveycharts"
)

// Card places one mount on the page under a title.
type Card struct {
	MountID string
	Title   string
}

// Page describes the dashboard page around the document.
type Page struct {
	Title       string
	Description string
	ProjectName string

	// ToggleAction is the URL the theme toggle form posts to. Empty hides
	// the toggle.
	ToggleAction string

	// Cards lists the mounts in page order. Empty renders every mount of
	// the document titled by its id.
	Cards []Card

	// Now supplies the footer year. Nil selects time.Now.
	Now func() time.Time
}

// NewPage creates a page with the default texts.
func NewPage() *Page {
	return &Page{
		Title:       defaultTitle,
		Description: defaultDescription,
		ProjectName: defaultProject,
	}
}

// WithCards sets the card titles from a mount id to title map, keeping
// the document's mount order.
func (p *Page) WithCards(doc *surface.Document, titles map[string]string) *Page {
	p.Cards = p.Cards[:0]

	for _, m := range doc.Mounts() {
		title := titles[m.ID()]
		if title == "" {
			title = m.ID()
		}

		p.Cards = append(p.Cards, Card{MountID: m.ID(), Title: title})
	}

	return p
}

// Render writes the page for the document's current theme.
func (p *Page) Render(w io.Writer, doc *surface.Document, table palette.Table) error {
	html, err := p.HTML(doc, table)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

// HTML renders the page for the document's current theme.
func (p *Page) HTML(doc *surface.Document, table palette.Table) (template.HTML, error) {
	theme := doc.Theme()

	pal, err := table.Lookup(theme)
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}

	vars, err := CSSVariables(pal)
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}

	button := doc.Button()

	header, err := execute("header.html", headerData{
		Title:        p.Title,
		Description:  p.Description,
		ToggleAction: p.ToggleAction,
		Icon:         button.Icon(),
		Label:        button.Label(),
	})
	if err != nil {
		return "", fmt.Errorf("render header: %w", err)
	}

	var (
		sections   bytes.Buffer
		hasECharts bool
	)

	for _, card := range p.cards(doc) {
		mount, mountErr := doc.Mount(card.MountID)
		if mountErr != nil {
			return "", fmt.Errorf("render card: %w", mountErr)
		}

		data := sectionData{MountID: card.MountID, Title: card.Title}

		if content, ok := mount.Content(); ok {
			switch content.ContentType {
			case surface.ContentPNG:
				data.ImageURI = ImageDataURI(content.Data)
			default:
				data.Chart = template.HTML(content.Data)
				hasECharts = true
			}
		}

		section, sectionErr := execute("section.html", data)
		if sectionErr != nil {
			return "", fmt.Errorf("render card %s: %w", card.MountID, sectionErr)
		}

		sections.WriteString(string(section))
	}

	var scripts template.HTML

	if hasECharts {
		scripts, err = execute("scripts.html", EChartsAssetURL)
		if err != nil {
			return "", fmt.Errorf("render scripts: %w", err)
		}
	}

	html, err := execute("page.html", pageData{
		Title:       p.Title,
		ProjectName: p.ProjectName,
		Theme:       string(theme),
		Vars:        vars,
		Header:      header,
		Content:     template.HTML(sections.String()),
		Scripts:     scripts,
		Year:        p.now().Year(),
	})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}

	return html, nil
}

func (p *Page) cards(doc *surface.Document) []Card {
	if len(p.Cards) > 0 {
		return p.Cards
	}

	mounts := doc.Mounts()
	cards := make([]Card, len(mounts))

	for i, m := range mounts {
		cards[i] = Card{MountID: m.ID(), Title: m.ID()}
	}

	return cards
}

func (p *Page) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}

	return p.Now()
}

// CSSVariables declares one custom property per palette token, named after
// the token in kebab case (bgPrimary becomes --bg-primary).
func CSSVariables(pal palette.Palette) (template.CSS, error) {
	var b strings.Builder

	for _, token := range palette.Tokens() {
		c, err := pal.Color(token)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "--%s: %s; ", kebab(string(token)), c)
	}

	return template.CSS(strings.TrimSpace(b.String())), nil
}

// ImageDataURI embeds PNG bytes as a data URI.
func ImageDataURI(png []byte) template.URL {
	return template.URL("data:" + surface.ContentPNG + ";base64," + base64.StdEncoding.EncodeToString(png))
}

func kebab(name string) string {
	var b strings.Builder

	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
