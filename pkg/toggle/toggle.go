// Package toggle switches the dashboard between the light and dark themes
// and keeps the document, the stored preference and the charts in step.
package toggle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/prefs"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

// Button faces per theme.
const (
	DarkIcon   = "🌙"
	DarkLabel  = "Dark Mode"
	LightIcon  = "☀️"
	LightLabel = "Light Mode"
)

// ErrRender wraps chart failures so callers can tell them apart from
// preference store failures.
var ErrRender = errors.New("render charts")

// Renderer regenerates every chart for a theme.
type Renderer interface {
	Render(ctx context.Context, theme palette.Theme) error
}

// Controller drives theme changes for one document.
type Controller struct {
	doc      *surface.Document
	store    prefs.Store
	renderer Renderer
	logger   *slog.Logger
}

// New creates a controller. A nil renderer only tracks the theme; a nil
// logger selects slog.Default.
func New(doc *surface.Document, store prefs.Store, renderer Renderer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		doc:      doc,
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// Load reads the stored preference and applies it to the document without
// rendering. Missing or invalid values select the light theme.
func (c *Controller) Load(ctx context.Context) (palette.Theme, error) {
	theme, err := c.stored(ctx)
	if err != nil {
		return "", err
	}

	c.apply(theme)

	return theme, nil
}

// Initialize applies the stored preference and renders the charts.
func (c *Controller) Initialize(ctx context.Context) (palette.Theme, error) {
	theme, err := c.Load(ctx)
	if err != nil {
		return "", err
	}

	return theme, c.render(ctx, theme)
}

// Toggle flips the document theme, stores it and renders the charts.
func (c *Controller) Toggle(ctx context.Context) (palette.Theme, error) {
	next := c.doc.Theme().Opposite()

	return next, c.Set(ctx, next)
}

// Show applies theme and renders the charts without storing it.
func (c *Controller) Show(ctx context.Context, theme palette.Theme) error {
	theme, err := palette.ParseTheme(string(theme))
	if err != nil {
		return err
	}

	c.apply(theme)

	return c.render(ctx, theme)
}

// Set applies theme, stores it and renders the charts.
func (c *Controller) Set(ctx context.Context, theme palette.Theme) error {
	theme, err := palette.ParseTheme(string(theme))
	if err != nil {
		return err
	}

	c.doc.SetTheme(theme)

	if err := c.store.Set(ctx, prefs.KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("store theme: %w", err)
	}

	c.updateButton(theme)

	return c.render(ctx, theme)
}

func (c *Controller) stored(ctx context.Context) (palette.Theme, error) {
	value, ok, err := c.store.Get(ctx, prefs.KeyTheme)
	if err != nil {
		return "", fmt.Errorf("read theme: %w", err)
	}

	if !ok {
		return palette.DefaultTheme, nil
	}

	theme, err := palette.ParseTheme(value)
	if err != nil {
		c.logger.WarnContext(ctx, "ignoring stored theme", "value", value, "error", err)

		return palette.DefaultTheme, nil
	}

	return theme, nil
}

func (c *Controller) apply(theme palette.Theme) {
	c.doc.SetTheme(theme)
	c.updateButton(theme)
}

func (c *Controller) updateButton(theme palette.Theme) {
	button := c.doc.Button()

	if theme == palette.ThemeDark {
		button.SetIcon(DarkIcon)
		button.SetLabel(DarkLabel)

		return
	}

	button.SetIcon(LightIcon)
	button.SetLabel(LightLabel)
}

func (c *Controller) render(ctx context.Context, theme palette.Theme) error {
	if c.renderer == nil {
		return nil
	}

	if err := c.renderer.Render(ctx, theme); err != nil {
		return fmt.Errorf("%w: %s theme: %w", ErrRender, theme, err)
	}

	return nil
}
