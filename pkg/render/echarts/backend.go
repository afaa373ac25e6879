// Package echarts renders chart configurations as ECharts HTML fragments
// using go-echarts.
package echarts

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/registry"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

// BackendName identifies this backend.
const BackendName = "echarts"

const styleTagLen = 8 // len("</style>")

// Backend draws charts as div + script fragments.
type Backend struct {
	style Style
}

// NewBackend creates a backend drawing charts at the given size.
func NewBackend(style Style) *Backend {
	return &Backend{style: style}
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

	inst := render.NewInstance(cfg.ChartID, mount)

	fragment, err := Fragment(cfg, b.style, inst.ElementID())
	if err != nil {
		return nil, err
	}

	if drawErr := inst.Draw(surface.ContentHTML, fragment); drawErr != nil {
		return nil, fmt.Errorf("draw %s chart: %w", cfg.ChartID, drawErr)
	}

	return inst, nil
}

// Fragment renders cfg to the chart element and its init script.
func Fragment(cfg chartconfig.Config, style Style, elementID string) ([]byte, error) {
	chart, err := BuildChart(cfg, style, elementID)
	if err != nil {
		return nil, fmt.Errorf("build %s chart: %w", cfg.ChartID, err)
	}

	var buf bytes.Buffer

	if renderErr := chart.Render(&buf); renderErr != nil {
		return nil, fmt.Errorf("rendering chart: %w", renderErr)
	}

	return []byte(extractChartContent(buf.String())), nil
}

// extractChartContent strips a go-echarts page down to the chart container
// and script. Content that is not a full page is returned as is.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
