// Package palette holds the light/dark design tokens and the color gradient
// generator used to style survey charts.
package palette

import (
	"errors"
	"fmt"
	"strings"
)

// Theme represents a color theme for the dashboard.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// DefaultTheme is used when no valid preference is available.
const DefaultTheme = ThemeLight

// ErrUnknownTheme is returned when a theme name is neither light nor dark.
var ErrUnknownTheme = errors.New("unknown theme")

// Themes lists every supported theme in display order.
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark}
}

// ParseTheme converts a theme name into a Theme.
func ParseTheme(name string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(name))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
}

// Opposite returns the theme a toggle switches to.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}

	return ThemeDark
}

// Opacity returns the fill opacity generated colors carry in this theme.
func (t Theme) Opacity() float64 {
	if t == ThemeDark {
		return darkOpacity
	}

	return lightOpacity
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}
