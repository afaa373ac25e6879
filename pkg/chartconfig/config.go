// Package chartconfig builds the declarative configuration a rendering
// backend turns into a chart widget.
package chartconfig

import (
	"strconv"
	"time"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartstyle"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
)

// Kind is the chart type.
type Kind string

// Supported chart kinds.
const (
	KindDoughnut Kind = "doughnut"
	KindBar      Kind = "bar"
	KindPie      Kind = "pie"
)

// Orientation is the direction bars grow in.
type Orientation string

// Bar orientations.
const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// DatasetStyle is the per-series visual styling.
type DatasetStyle struct {
	BackgroundColors []palette.RGBA `json:"backgroundColors"`
	BorderColor      string         `json:"borderColor"`
	BorderRadius     int            `json:"borderRadius,omitempty"`
	BorderSkipped    bool           `json:"borderSkipped"`
	Cutout           string         `json:"cutout,omitempty"`
	Spacing          int            `json:"spacing,omitempty"`
}

// Legend configures the series legend.
type Legend struct {
	Display  bool            `json:"display"`
	Position string          `json:"position,omitempty"`
	Color    string          `json:"color,omitempty"`
	Font     chartstyle.Font `json:"font"`
	Padding  int             `json:"padding,omitempty"`
}

// Tooltip is the theme tooltip plus the label suffix appended to values.
type Tooltip struct {
	chartstyle.Tooltip

	Suffix string `json:"suffix"`
}

// Axis configures one bar chart axis.
type Axis struct {
	BeginAtZero bool             `json:"beginAtZero"`
	GridDisplay bool             `json:"gridDisplay"`
	GridColor   string           `json:"gridColor,omitempty"`
	TickColor   string           `json:"tickColor"`
	TickFont    *chartstyle.Font `json:"tickFont,omitempty"`
	TickSuffix  string           `json:"tickSuffix,omitempty"`
}

// Scales holds the value and category axes of a bar chart.
type Scales struct {
	Value    Axis `json:"value"`
	Category Axis `json:"category"`
}

// Animation is the entrance animation.
type Animation struct {
	Duration      time.Duration `json:"duration"`
	Easing        string        `json:"easing"`
	AnimateRotate bool          `json:"animateRotate,omitempty"`
	AnimateScale  bool          `json:"animateScale,omitempty"`
}

// Interaction controls which elements hover and tooltips pick.
type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

// Config is everything a backend needs to draw one chart.
type Config struct {
	ChartID             dataset.ID          `json:"id"`
	Title               string              `json:"title"`
	Kind                Kind                `json:"kind"`
	Orientation         Orientation         `json:"orientation,omitempty"`
	Labels              []string            `json:"labels"`
	Values              []float64           `json:"values"`
	Dataset             DatasetStyle        `json:"dataset"`
	Legend              Legend              `json:"legend"`
	Tooltip             Tooltip             `json:"tooltip"`
	Scales              *Scales             `json:"scales,omitempty"`
	Animation           Animation           `json:"animation"`
	Interaction         Interaction         `json:"interaction"`
	Responsive          bool                `json:"responsive"`
	MaintainAspectRatio bool                `json:"maintainAspectRatio"`
	Defaults            chartstyle.Defaults `json:"defaults"`
}

// Horizontal reports whether the chart is a bar chart with bars along the x axis.
func (c Config) Horizontal() bool {
	return c.Kind == KindBar && c.Orientation == Horizontal
}

// ColorAt returns the fill for entry i, cycling when there are fewer colors than entries.
func (c Config) ColorAt(i int) palette.RGBA {
	colors := c.Dataset.BackgroundColors

	return colors[i%len(colors)]
}

// FormatValue renders a value with the tooltip suffix, e.g. "39%".
func (c Config) FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + c.Tooltip.Suffix
}

// TooltipLabel renders the hover label of entry i, e.g. "Go: 2%".
func (c Config) TooltipLabel(i int) string {
	return c.Labels[i] + ": " + c.FormatValue(c.Values[i])
}
