// Package raster renders chart configurations to PNG images with go-chart.
package raster

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/registry"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

// BackendName identifies this backend.
const BackendName = "raster"

// Default image size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

const (
	maxBarWidth   = 40
	axisReserve   = 120
	sliceStroke   = 2.0
	barStroke     = 1.0
	labelFontSize = 10.0
)

// Size is the image size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize returns the default image size.
func DefaultSize() Size {
	return Size{Width: DefaultWidth, Height: DefaultHeight}
}

// Backend draws charts as PNG images.
type Backend struct {
	size Size
}

// NewBackend creates a backend producing images of the given size.
func NewBackend(size Size) *Backend {
	return &Backend{size: size}
}

// Name implements render.Backend.
func (b *Backend) Name() string {
	return BackendName
}

// Create implements render.Backend.
func (b *Backend) Create(ctx context.Context, mount *surface.Mount, cfg chartconfig.Config) (registry.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("create %s chart: %w", cfg.ChartID, err)
	}

	png, err := PNG(cfg, b.size)
	if err != nil {
		return nil, err
	}

	inst := render.NewInstance(cfg.ChartID, mount)

	if drawErr := inst.Draw(surface.ContentPNG, png); drawErr != nil {
		return nil, fmt.Errorf("draw %s chart: %w", cfg.ChartID, drawErr)
	}

	return inst, nil
}

// PNG renders cfg as a PNG image. go-chart only draws vertical bars, so
// horizontal bar charts come out vertical.
func PNG(cfg chartconfig.Config, size Size) ([]byte, error) {
	theme, err := newThemeColors(cfg)
	if err != nil {
		return nil, fmt.Errorf("raster %s: %w", cfg.ChartID, err)
	}

	buffer := bytes.NewBuffer([]byte{})

	switch cfg.Kind {
	case chartconfig.KindBar:
		err = barChart(cfg, size, theme).Render(chart.PNG, buffer)
	case chartconfig.KindPie:
		err = pieChart(cfg, size, theme).Render(chart.PNG, buffer)
	case chartconfig.KindDoughnut:
		err = donutChart(cfg, size, theme).Render(chart.PNG, buffer)
	default:
		return nil, fmt.Errorf("raster %s: %w: %q", cfg.ChartID, chartconfig.ErrUnsupportedKind, cfg.Kind)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s png: %w", cfg.ChartID, err)
	}

	return buffer.Bytes(), nil
}

type themeColors struct {
	background drawing.Color
	text       drawing.Color
	grid       drawing.Color
	border     drawing.Color
}

func newThemeColors(cfg chartconfig.Config) (themeColors, error) {
	pal := cfg.Defaults.Palette
	if pal == nil {
		return themeColors{}, chartconfig.ErrNoDefaults
	}

	border, err := palette.ParseColor(cfg.Dataset.BorderColor)
	if err != nil {
		return themeColors{}, err
	}

	grid, err := palette.ParseColor(cfg.Defaults.BorderColor)
	if err != nil {
		return themeColors{}, err
	}

	return themeColors{
		background: toDrawing(pal.MustColor(palette.BgPrimary).WithAlpha(1)),
		text:       toDrawing(pal.MustColor(palette.TextSecondary).WithAlpha(1)),
		grid:       toDrawing(grid),
		border:     toDrawing(border),
	}, nil
}

func toDrawing(c palette.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.Alpha8()}
}

func values(cfg chartconfig.Config, theme themeColors, strokeWidth float64) []chart.Value {
	out := make([]chart.Value, len(cfg.Values))
	for i, v := range cfg.Values {
		out[i] = chart.Value{
			Label: cfg.Labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   toDrawing(cfg.ColorAt(i)),
				StrokeColor: theme.border,
				StrokeWidth: strokeWidth,
				FontColor:   theme.text,
			},
		}
	}

	return out
}

// barLayout splits the plot width into one slot per bar, two thirds bar and
// one third gap.
func barLayout(width, bars int) (barWidth, spacing int) {
	slot := max((width-axisReserve)/max(bars, 1), 3)
	barWidth = min(slot*2/3, maxBarWidth)

	return barWidth, slot - barWidth
}

func barChart(cfg chartconfig.Config, size Size, theme themeColors) chart.BarChart {
	barWidth, spacing := barLayout(size.Width, len(cfg.Values))

	return chart.BarChart{
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{FillColor: theme.background},
		Canvas:     chart.Style{FillColor: theme.background},
		XAxis: chart.Style{
			FontColor: theme.text,
			FontSize:  labelFontSize,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: theme.text,
				FontSize:  labelFontSize,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: theme.grid,
				StrokeWidth: barStroke,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return cfg.FormatValue(f)
				}

				return fmt.Sprint(v)
			},
		},
		Bars: values(cfg, theme, barStroke),
	}
}

func pieChart(cfg chartconfig.Config, size Size, theme themeColors) chart.PieChart {
	return chart.PieChart{
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{FillColor: theme.background},
		Canvas:     chart.Style{FillColor: theme.background},
		Values:     values(cfg, theme, sliceStroke),
	}
}

func donutChart(cfg chartconfig.Config, size Size, theme themeColors) chart.DonutChart {
	return chart.DonutChart{
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{FillColor: theme.background},
		Canvas:     chart.Style{FillColor: theme.background},
		Values:     values(cfg, theme, sliceStroke),
	}
}
