package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrBadColor is returned for color text that cannot be parsed.
var ErrBadColor = errors.New("invalid color")

const (
	rgbChannels  = 3
	rgbaChannels = 4
)

// ParseColor reads a color in one of the forms the dashboard writes or a
// user types: "#rrggbb", "rgb(r, g, b)", "rgba(r, g, b, a)" or "r,g,b".
// Colors without an explicit opacity are fully opaque.
func ParseColor(text string) (RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q: %w", ErrBadColor, text, err)
		}

		r, g, b := c.RGB255()

		return NewRGB(r, g, b).WithAlpha(1), nil
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseChannels(text, s[len("rgba("):len(s)-1], rgbaChannels)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseChannels(text, s[len("rgb("):len(s)-1], rgbChannels)
	default:
		return parseChannels(text, s, rgbChannels)
	}
}

func parseChannels(text, body string, want int) (RGBA, error) {
	parts := strings.Split(body, ",")
	if len(parts) != want {
		return RGBA{}, fmt.Errorf("%w: %q: want %d components", ErrBadColor, text, want)
	}

	var channels [rgbChannels]uint8

	for i := range rgbChannels {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q: %w", ErrBadColor, text, err)
		}

		channels[i] = uint8(v)
	}

	alpha := 1.0

	if want == rgbaChannels {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[rgbChannels]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("%w: %q: opacity out of range", ErrBadColor, text)
		}

		alpha = a
	}

	return NewRGB(channels[0], channels[1], channels[2]).WithAlpha(alpha), nil
}
