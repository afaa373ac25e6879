// Package chartstyle derives the theme-wide rendering defaults every chart
// is created with. Defaults are plain values passed to each chart build, so
// there is no shared mutable renderer state.
package chartstyle

import (
	"fmt"

	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
)

// Transparent is the CSS keyword for a fully transparent fill.
const Transparent = "transparent"

const (
	borderAlpha     = 0.5
	tooltipAlpha    = 0.95
	tooltipBorder   = 1
	tooltipRadius   = 12
	tooltipPadding  = 16
	titleFontSize   = 16
	bodyFontSize    = 14
	titleFontWeight = "600"
	tooltipShadow   = "0 25px 50px -12px rgba(0, 0, 0, 0.6)"
)

// Font describes a text style.
type Font struct {
	Size   int    `json:"size"`
	Weight string `json:"weight,omitempty"`
}

// Tooltip is the shared hover tooltip style.
type Tooltip struct {
	Enabled         bool   `json:"enabled"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	BorderWidth     int    `json:"borderWidth"`
	CornerRadius    int    `json:"cornerRadius"`
	Padding         int    `json:"padding"`
	TitleColor      string `json:"titleColor"`
	BodyColor       string `json:"bodyColor"`
	TitleFont       Font   `json:"titleFont"`
	BodyFont        Font   `json:"bodyFont"`
	DisplayColors   bool   `json:"displayColors"`
	BoxShadow       string `json:"boxShadow"`
}

// Defaults are the global styles a theme imposes on every chart.
type Defaults struct {
	Theme           palette.Theme   `json:"theme"`
	Palette         palette.Palette `json:"-"`
	Color           string          `json:"color"`
	BorderColor     string          `json:"borderColor"`
	BackgroundColor string          `json:"backgroundColor"`
	Tooltip         Tooltip         `json:"tooltip"`
}

// Apply derives the defaults for theme from the palette table.
func Apply(table palette.Table, theme palette.Theme) (Defaults, error) {
	pal, err := table.Lookup(theme)
	if err != nil {
		return Defaults{}, fmt.Errorf("apply theme: %w", err)
	}

	if validateErr := pal.Validate(); validateErr != nil {
		return Defaults{}, fmt.Errorf("apply theme %s: %w", theme, validateErr)
	}

	return Defaults{
		Theme:           theme,
		Palette:         pal,
		Color:           pal.MustColor(palette.TextSecondary).String(),
		BorderColor:     pal.MustColor(palette.BgTertiary).WithAlpha(borderAlpha).String(),
		BackgroundColor: Transparent,
		Tooltip: Tooltip{
			Enabled:         true,
			BackgroundColor: pal.MustColor(palette.TextPrimary).WithAlpha(tooltipAlpha).String(),
			BorderColor:     pal.MustColor(palette.AccentLight).String(),
			BorderWidth:     tooltipBorder,
			CornerRadius:    tooltipRadius,
			Padding:         tooltipPadding,
			TitleColor:      pal.MustColor(palette.BgPrimary).String(),
			BodyColor:       pal.MustColor(palette.BgSecondary).String(),
			TitleFont:       Font{Size: titleFontSize, Weight: titleFontWeight},
			BodyFont:        Font{Size: bodyFontSize},
			DisplayColors:   false,
			BoxShadow:       tooltipShadow,
		},
	}, nil
}
