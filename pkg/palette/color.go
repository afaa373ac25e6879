package palette

import (
	"fmt"
	"math"
	"strconv"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// RGBA is an 8-bit color with an opacity in [0, 1].
type RGBA struct {
	RGB

	A float64 `json:"a" yaml:"a"`
}

// NewRGB builds an RGB from its channels.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// WithAlpha attaches an opacity to the color.
func (c RGB) WithAlpha(alpha float64) RGBA {
	return RGBA{RGB: c, A: alpha}
}

// String returns the CSS rgb() form.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the #rrggbb form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the CSS rgba() form.
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Alpha8 returns the opacity scaled to 0..255.
func (c RGBA) Alpha8() uint8 {
	return uint8(math.Floor(clampUnit(c.A)*maxChannel + half))
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
