package chartconfig

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartstyle"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
)

// Sentinel errors.
var (
	ErrUnsupportedKind = errors.New("unsupported chart kind")
	ErrNoColors        = errors.New("chart has no colors")
	ErrBadOrientation  = errors.New("unsupported bar orientation")
	ErrNoDefaults      = errors.New("chart defaults carry no valid palette")
)

const (
	// PercentSuffix is appended to survey percentages.
	PercentSuffix = "%"

	animationDuration = 2 * time.Second
	animationEasing   = "easeOutQuart"
	interactionMode   = "nearest"

	doughnutCutout  = "75%"
	doughnutSpacing = 6
	pieCutout       = "0%"
	barRadius       = 8

	gridAlpha         = 0.5
	categoryFontSize  = 14
	categoryWeight    = "500"
	legendFontSize    = 13
	legendFontWeight  = "500"
	legendPadding     = 20
	legendPositionBot = "bottom"
)

// Spec holds the knobs that differ between the dashboard's charts.
type Spec struct {
	Kind        Kind
	Orientation Orientation
	ShowLegend  bool
	ValueSuffix string
}

// Input is one chart to build.
type Input struct {
	Spec

	ID          dataset.ID
	Data        dataset.Dataset
	Colors      []palette.RGBA
	BorderColor string
}

// Build assembles the declarative configuration of one chart.
func Build(in Input, defaults chartstyle.Defaults) (Config, error) {
	if err := in.Data.Validate(); err != nil {
		return Config{}, fmt.Errorf("chart %s: %w", in.ID, err)
	}

	if len(in.Colors) == 0 {
		return Config{}, fmt.Errorf("chart %s: %w", in.ID, ErrNoColors)
	}

	pal := defaults.Palette
	if pal == nil || pal.Validate() != nil {
		return Config{}, fmt.Errorf("chart %s: %w", in.ID, ErrNoDefaults)
	}

	cfg := Config{
		ChartID: in.ID,
		Title:   in.Data.Title,
		Kind:    in.Kind,
		Labels:  slices.Clone(in.Data.Labels),
		Values:  slices.Clone(in.Data.Values),
		Dataset: DatasetStyle{
			BackgroundColors: slices.Clone(in.Colors),
			BorderColor:      in.BorderColor,
		},
		Legend:              Legend{Display: false},
		Tooltip:             Tooltip{Tooltip: defaults.Tooltip, Suffix: in.ValueSuffix},
		Animation:           Animation{Duration: animationDuration, Easing: animationEasing},
		Interaction:         Interaction{Mode: interactionMode, Intersect: true},
		Responsive:          true,
		MaintainAspectRatio: false,
		Defaults:            defaults,
	}

	if in.ShowLegend {
		cfg.Legend = Legend{
			Display:  true,
			Position: legendPositionBot,
			Color:    pal.MustColor(palette.TextSecondary).String(),
			Font:     chartstyle.Font{Size: legendFontSize, Weight: legendFontWeight},
			Padding:  legendPadding,
		}
	}

	switch in.Kind {
	case KindDoughnut:
		cfg.Dataset.Cutout = doughnutCutout
		cfg.Dataset.Spacing = doughnutSpacing
		cfg.Animation.AnimateRotate = true
	case KindPie:
		cfg.Dataset.Cutout = pieCutout
		cfg.Animation.AnimateScale = true
	case KindBar:
		if in.Orientation != Vertical && in.Orientation != Horizontal {
			return Config{}, fmt.Errorf("chart %s: %w: %q", in.ID, ErrBadOrientation, in.Orientation)
		}

		cfg.Orientation = in.Orientation
		cfg.Dataset.BorderRadius = barRadius
		cfg.Scales = barScales(pal, in.ValueSuffix)
	default:
		return Config{}, fmt.Errorf("chart %s: %w: %q", in.ID, ErrUnsupportedKind, in.Kind)
	}

	return cfg, nil
}

func barScales(pal palette.Palette, suffix string) *Scales {
	return &Scales{
		Value: Axis{
			BeginAtZero: true,
			GridDisplay: true,
			GridColor:   pal.MustColor(palette.BgTertiary).WithAlpha(gridAlpha).String(),
			TickColor:   pal.MustColor(palette.TextSecondary).String(),
			TickSuffix:  suffix,
		},
		Category: Axis{
			GridDisplay: false,
			TickColor:   pal.MustColor(palette.TextPrimary).String(),
			TickFont:    &chartstyle.Font{Size: categoryFontSize, Weight: categoryWeight},
		},
	}
}
