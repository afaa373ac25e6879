package palette

import "math"

const (
	darkOpacity  = 0.85
	lightOpacity = 0.95

	maxChannel = 255
	half       = 0.5
)

// Gradient linearly interpolates count colors from start to end, both
// inclusive. Every color carries the theme's opacity.
//
// A count of one yields only start; a count below one yields nothing.
func Gradient(start, end RGB, count int, theme Theme) []RGBA {
	if count <= 0 {
		return []RGBA{}
	}

	opacity := theme.Opacity()

	if count == 1 {
		return []RGBA{start.WithAlpha(opacity)}
	}

	colors := make([]RGBA, count)
	last := float64(count - 1)

	for i := range count {
		ratio := float64(i) / last

		colors[i] = RGB{
			R: lerpChannel(start.R, end.R, ratio),
			G: lerpChannel(start.G, end.G, ratio),
			B: lerpChannel(start.B, end.B, ratio),
		}.WithAlpha(opacity)
	}

	return colors
}

// lerpChannel rounds half up, so 164.5 becomes 165.
func lerpChannel(from, to uint8, ratio float64) uint8 {
	value := float64(from) + ratio*(float64(to)-float64(from))

	return uint8(math.Floor(value + half))
}
