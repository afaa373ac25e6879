package dashboard

import (
	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
)

// Mount point ids of the dashboard page.
const (
	MountWorkspace = "workspaceChart"
	MountLanguages = "languagesChart"
	MountFrontend  = "frontendChart"
	MountBackend   = "backendChart"
	MountDatabases = "databaseChart"
	MountStyling   = "stylingChart"
)

const (
	fixedAlpha  = 0.95
	borderAlpha = 0.7
	opaque      = 1
)

// ColorRule selects the fill colors of a chart: either a fixed list of
// palette tokens at one opacity, or a gradient between two tokens with the
// theme opacity.
type ColorRule struct {
	Fixed      []palette.Token
	FixedAlpha float64
	From       palette.Token
	To         palette.Token
}

// Resolve returns the fill colors for n entries.
func (r ColorRule) Resolve(pal palette.Palette, theme palette.Theme, n int) []palette.RGBA {
	if len(r.Fixed) > 0 {
		colors := make([]palette.RGBA, len(r.Fixed))
		for i, token := range r.Fixed {
			colors[i] = pal.MustColor(token).WithAlpha(r.FixedAlpha)
		}

		return colors
	}

	return palette.Gradient(pal.MustColor(r.From), pal.MustColor(r.To), n, theme)
}

// BorderRule selects the slice or bar outline color.
type BorderRule struct {
	Token palette.Token
	Alpha float64
}

// CSS returns the outline color; a fully opaque rule yields the rgb() form.
func (b BorderRule) CSS(pal palette.Palette) string {
	c := pal.MustColor(b.Token)
	if b.Alpha >= opaque {
		return c.String()
	}

	return c.WithAlpha(b.Alpha).String()
}

// Chart is one entry of the dashboard: which data goes where and how it looks.
type Chart struct {
	ID      dataset.ID
	MountID string
	Spec    chartconfig.Spec
	Colors  ColorRule
	Border  BorderRule
}

// Plan returns the dashboard charts in page order.
func Plan() []Chart {
	return []Chart{
		{
			ID:      dataset.Workspace,
			MountID: MountWorkspace,
			Spec:    chartconfig.Spec{Kind: chartconfig.KindDoughnut, ValueSuffix: chartconfig.PercentSuffix},
			Colors: ColorRule{
				Fixed:      []palette.Token{palette.AccentDark, palette.AccentLight, palette.BlueGreenShade},
				FixedAlpha: fixedAlpha,
			},
			Border: BorderRule{Token: palette.BgPrimary, Alpha: opaque},
		},
		{
			ID:      dataset.Languages,
			MountID: MountLanguages,
			Spec:    barSpec(chartconfig.Horizontal),
			Colors:  ColorRule{From: palette.AccentDark, To: palette.BlueGreenShade},
			Border:  BorderRule{Token: palette.AccentLight, Alpha: borderAlpha},
		},
		{
			ID:      dataset.FrontendFrameworks,
			MountID: MountFrontend,
			Spec:    barSpec(chartconfig.Vertical),
			Colors:  ColorRule{From: palette.BlueGreenShade, To: palette.AccentLight},
			Border:  BorderRule{Token: palette.BlueGreenShade, Alpha: borderAlpha},
		},
		{
			ID:      dataset.BackendFrameworks,
			MountID: MountBackend,
			Spec:    barSpec(chartconfig.Vertical),
			Colors:  ColorRule{From: palette.AccentDark, To: palette.BlueGreenShade},
			Border:  BorderRule{Token: palette.AccentLight, Alpha: borderAlpha},
		},
		{
			ID:      dataset.Databases,
			MountID: MountDatabases,
			Spec:    barSpec(chartconfig.Horizontal),
			Colors:  ColorRule{From: palette.BlueGreenShade, To: palette.AccentLight},
			Border:  BorderRule{Token: palette.BlueGreenShade, Alpha: borderAlpha},
		},
		{
			ID:      dataset.Styling,
			MountID: MountStyling,
			Spec: chartconfig.Spec{
				Kind:        chartconfig.KindPie,
				ShowLegend:  true,
				ValueSuffix: chartconfig.PercentSuffix,
			},
			Colors: ColorRule{From: palette.AccentDark, To: palette.BlueGreenShade},
			Border: BorderRule{Token: palette.BgPrimary, Alpha: opaque},
		},
	}
}

func barSpec(orientation chartconfig.Orientation) chartconfig.Spec {
	return chartconfig.Spec{
		Kind:        chartconfig.KindBar,
		Orientation: orientation,
		ValueSuffix: chartconfig.PercentSuffix,
	}
}

// MountIDs returns the mount ids of plan in page order.
func MountIDs(plan []Chart) []string {
	ids := make([]string, len(plan))
	for i, c := range plan {
		ids[i] = c.MountID
	}

	return ids
}
