package palette

import (
	"errors"
	"fmt"
	"maps"
)

// Token names one design color of a palette.
type Token string

// Palette tokens. Every theme must define all of them.
const (
	BgPrimary      Token = "bgPrimary"
	BgSecondary    Token = "bgSecondary"
	BgTertiary     Token = "bgTertiary"
	AccentLight    Token = "accentLight"
	AccentDark     Token = "accentDark"
	NewBlueShade   Token = "newBlueShade"
	BlueGreenShade Token = "blueGreenShade"
	TextPrimary    Token = "textPrimary"
	TextSecondary  Token = "textSecondary"
)

// ErrMissingToken is returned when a palette lacks a required token.
var ErrMissingToken = errors.New("palette token missing")

// Tokens lists every required token.
func Tokens() []Token {
	return []Token{
		BgPrimary, BgSecondary, BgTertiary,
		AccentLight, AccentDark, NewBlueShade, BlueGreenShade,
		TextPrimary, TextSecondary,
	}
}

// Palette maps tokens to colors for one theme.
type Palette map[Token]RGB

// Color returns the color for a token.
func (p Palette) Color(token Token) (RGB, error) {
	c, ok := p[token]
	if !ok {
		return RGB{}, fmt.Errorf("%w: %s", ErrMissingToken, token)
	}

	return c, nil
}

// MustColor returns the color for a token, panicking when it is missing.
// Use only on palettes that passed Validate.
func (p Palette) MustColor(token Token) RGB {
	c, err := p.Color(token)
	if err != nil {
		panic("palette: " + err.Error())
	}

	return c
}

// Validate reports every missing token.
func (p Palette) Validate() error {
	var errs []error

	for _, token := range Tokens() {
		if _, ok := p[token]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingToken, token))
		}
	}

	return errors.Join(errs...)
}

// Table maps each theme to its palette.
type Table map[Theme]Palette

// Lookup returns the palette of a theme.
func (t Table) Lookup(theme Theme) (Palette, error) {
	p, ok := t[theme]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no palette", ErrUnknownTheme, theme)
	}

	return p, nil
}

// Validate checks that every supported theme has a complete palette.
func (t Table) Validate() error {
	var errs []error

	for _, theme := range Themes() {
		p, err := t.Lookup(theme)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("theme %s: %w", theme, err))
		}
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy so callers cannot mutate the defaults.
func (t Table) Clone() Table {
	out := make(Table, len(t))

	for theme, p := range t {
		out[theme] = maps.Clone(p)
	}

	return out
}

// DefaultTable returns the built-in design tokens.
func DefaultTable() Table {
	return defaultTable.Clone()
}

var defaultTable = Table{
	ThemeLight: {
		BgPrimary:      NewRGB(248, 248, 248),
		BgSecondary:    NewRGB(234, 234, 234),
		BgTertiary:     NewRGB(220, 220, 220),
		AccentLight:    NewRGB(0, 123, 255),
		AccentDark:     NewRGB(0, 86, 179),
		NewBlueShade:   NewRGB(33, 150, 243),
		BlueGreenShade: NewRGB(0, 168, 150),
		TextPrimary:    NewRGB(51, 51, 51),
		TextSecondary:  NewRGB(102, 102, 102),
	},
	ThemeDark: {
		BgPrimary:      NewRGB(5, 16, 26),
		BgSecondary:    NewRGB(10, 28, 43),
		BgTertiary:     NewRGB(21, 42, 63),
		AccentLight:    NewRGB(100, 181, 246),
		AccentDark:     NewRGB(63, 114, 175),
		NewBlueShade:   NewRGB(33, 150, 243),
		BlueGreenShade: NewRGB(32, 178, 170),
		TextPrimary:    NewRGB(224, 239, 255),
		TextSecondary:  NewRGB(160, 176, 192),
	},
}
