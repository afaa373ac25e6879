package echarts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
)

// Border width drawn around doughnut slices to open the gaps between them.
const sliceGapWidth = 2

// Style defines chart element dimensions.
type Style struct {
	Width  string
	Height string
}

// DefaultStyle returns the default chart style.
func DefaultStyle() Style {
	return Style{
		Width:  "100%",
		Height: "360px",
	}
}

// Renderable is a go-echarts chart.
type Renderable interface {
	Render(w io.Writer) error
}

// BuildChart constructs the go-echarts chart for cfg.
func BuildChart(cfg chartconfig.Config, style Style, elementID string) (Renderable, error) {
	cOpts := NewChartOpts(cfg, style)

	switch cfg.Kind {
	case chartconfig.KindBar:
		return BuildBarChart(cOpts, elementID), nil
	case chartconfig.KindPie, chartconfig.KindDoughnut:
		return BuildPieChart(cOpts, elementID), nil
	default:
		return nil, fmt.Errorf("%w: %q", chartconfig.ErrUnsupportedKind, cfg.Kind)
	}
}

// BuildBarChart constructs a themed bar chart. Horizontal charts swap the
// axes so categories run down the y axis, first category at the top.
func BuildBarChart(cOpts *ChartOpts, elementID string) *charts.Bar {
	cfg := cOpts.cfg

	valueAxis := opts.XAxis{
		Type:      "value",
		AxisLabel: cOpts.ValueAxisLabel(),
		SplitLine: cOpts.ValueSplitLine(),
	}
	categoryAxis := opts.YAxis{
		Type:      "category",
		Inverse:   opts.Bool(cfg.Horizontal()),
		AxisLabel: cOpts.CategoryAxisLabel(),
		SplitLine: cOpts.CategorySplitLine(),
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(elementID)),
		charts.WithTooltipOpts(cOpts.Tooltip()),
		charts.WithLegendOpts(cOpts.Legend()),
		charts.WithGridOpts(cOpts.Grid()),
	)

	if cfg.Horizontal() {
		bar.SetGlobalOptions(
			charts.WithXAxisOpts(valueAxis),
			charts.WithYAxisOpts(categoryAxis),
		)
	} else {
		bar.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{
				Type:      "category",
				AxisLabel: categoryAxis.AxisLabel,
				SplitLine: categoryAxis.SplitLine,
			}),
			charts.WithYAxisOpts(opts.YAxis{
				Type:      "value",
				AxisLabel: valueAxis.AxisLabel,
				SplitLine: valueAxis.SplitLine,
			}),
		)
	}

	bar.SetXAxis(cfg.Labels)

	barData := make([]opts.BarData, len(cfg.Values))
	for i, v := range cfg.Values {
		barData[i] = opts.BarData{
			Name:  cfg.Labels[i],
			Value: v,
			ItemStyle: &opts.ItemStyle{
				Color:       cfg.ColorAt(i).String(),
				BorderColor: cfg.Dataset.BorderColor,
			},
		}
	}

	bar.AddSeries(cfg.Title, barData)

	if cfg.Horizontal() {
		bar.XYReversal()
	}

	return bar
}

// BuildPieChart constructs a themed pie or doughnut chart.
func BuildPieChart(cOpts *ChartOpts, elementID string) *charts.Pie {
	cfg := cOpts.cfg

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(elementID)),
		charts.WithTooltipOpts(cOpts.Tooltip()),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	pieData := make([]opts.PieData, len(cfg.Values))
	for i, v := range cfg.Values {
		style := &opts.ItemStyle{
			Color:       cfg.ColorAt(i).String(),
			BorderColor: cfg.Dataset.BorderColor,
		}

		if cfg.Dataset.Spacing > 0 {
			style.BorderWidth = sliceGapWidth
		}

		pieData[i] = opts.PieData{
			Name:      cfg.Labels[i],
			Value:     v,
			ItemStyle: style,
		}
	}

	pie.AddSeries(cfg.Title, pieData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: cOpts.Radius(),
			}),
		)

	return pie
}
