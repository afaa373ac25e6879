package echarts

import (
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
)

// Fixed label sizes; go-echarts takes these as untyped numbers.
const (
	categoryLabelSize = 14
	valueLabelSize    = 12
)

const (
	outerRadiusPercent = 80
	percentBase        = 100
)

// jsSanitizer drops characters that would end the JavaScript string literals
// the formatters splice values into.
var jsSanitizer = strings.NewReplacer(`\`, "", `'`, "", "\n", " ")

// ChartOpts maps one chart configuration onto go-echarts options.
type ChartOpts struct {
	cfg   chartconfig.Config
	style Style
}

// NewChartOpts creates options for cfg.
func NewChartOpts(cfg chartconfig.Config, style Style) *ChartOpts {
	return &ChartOpts{cfg: cfg, style: style}
}

// Init returns initialization options bound to the DOM element id.
func (c *ChartOpts) Init(elementID string) opts.Initialization {
	return opts.Initialization{
		ChartID:         elementID,
		Width:           c.style.Width,
		Height:          c.style.Height,
		BackgroundColor: c.cfg.Defaults.BackgroundColor,
	}
}

// Tooltip returns the item tooltip with the theme colors and a
// "<label>: <value><suffix>" body.
func (c *ChartOpts) Tooltip() opts.Tooltip {
	tip := c.cfg.Tooltip

	return opts.Tooltip{
		Show:            opts.Bool(tip.Enabled),
		Trigger:         "item",
		BackgroundColor: tip.BackgroundColor,
		BorderColor:     tip.BorderColor,
		Formatter:       opts.FuncOpts(c.tooltipFormatter()),
	}
}

func (c *ChartOpts) tooltipFormatter() string {
	tip := c.cfg.Tooltip

	title := "<div style=\"color:" + jsSanitizer.Replace(tip.TitleColor) +
		";font-size:" + strconv.Itoa(tip.TitleFont.Size) + "px;font-weight:" +
		jsSanitizer.Replace(tip.TitleFont.Weight) + "\">"
	body := "<div style=\"color:" + jsSanitizer.Replace(tip.BodyColor) +
		";font-size:" + strconv.Itoa(tip.BodyFont.Size) + "px\">"

	return "function (p) { return '" + title + "' + p.name + '</div>" + body +
		"' + p.name + ': ' + p.value + '" + jsSanitizer.Replace(tip.Suffix) + "</div>'; }"
}

// Legend returns the legend options; hidden unless the configuration shows one.
func (c *ChartOpts) Legend() opts.Legend {
	legend := c.cfg.Legend
	if !legend.Display {
		return opts.Legend{Show: opts.Bool(false)}
	}

	return opts.Legend{
		Show: opts.Bool(true),
		Top:  legend.Position,
		TextStyle: &opts.TextStyle{
			Color:    legend.Color,
			FontSize: legend.Font.Size,
		},
	}
}

// Grid returns grid options keeping labels inside the chart box.
func (c *ChartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          "5%",
		Bottom:       "5%",
		Left:         "3%",
		Right:        "5%",
		ContainLabel: opts.Bool(true),
	}
}

// ValueAxisLabel returns the value axis tick labels with the value suffix.
func (c *ChartOpts) ValueAxisLabel() *opts.AxisLabel {
	axis := c.cfg.Scales.Value

	return &opts.AxisLabel{
		Color:     axis.TickColor,
		FontSize:  valueLabelSize,
		Formatter: opts.FuncOpts("function (v) { return v + '" + jsSanitizer.Replace(axis.TickSuffix) + "'; }"),
	}
}

// ValueSplitLine returns the value axis grid lines.
func (c *ChartOpts) ValueSplitLine() *opts.SplitLine {
	axis := c.cfg.Scales.Value

	return &opts.SplitLine{
		Show:      opts.Bool(axis.GridDisplay),
		LineStyle: &opts.LineStyle{Color: axis.GridColor},
	}
}

// CategoryAxisLabel returns the category axis tick labels.
func (c *ChartOpts) CategoryAxisLabel() *opts.AxisLabel {
	return &opts.AxisLabel{
		Color:    c.cfg.Scales.Category.TickColor,
		FontSize: categoryLabelSize,
		Interval: "0",
	}
}

// CategorySplitLine returns the category axis grid lines.
func (c *ChartOpts) CategorySplitLine() *opts.SplitLine {
	return &opts.SplitLine{Show: opts.Bool(c.cfg.Scales.Category.GridDisplay)}
}

// Radius returns the pie radius: a single outer radius for a pie, an
// inner/outer pair for a doughnut derived from the cutout percentage.
func (c *ChartOpts) Radius() any {
	outer := strconv.Itoa(outerRadiusPercent) + "%"

	cutout, err := strconv.ParseFloat(strings.TrimSuffix(c.cfg.Dataset.Cutout, "%"), 64)
	if err != nil || cutout <= 0 {
		return outer
	}

	inner := strconv.FormatFloat(outerRadiusPercent*cutout/percentBase, 'f', -1, 64) + "%"

	return []string{inner, outer}
}
