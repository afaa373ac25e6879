package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
)

// Tool name constants.
const (
	ToolNameDashboardConfig = "dashboard_config"
	ToolNameGradient        = "gradient_generate"
	ToolNameDatasets        = "datasets_list"
)

// MaxGradientCount bounds the number of colors one gradient call may return.
const MaxGradientCount = 1024

// Sentinel errors for tool input validation.
var (
	// ErrEmptyColor indicates a gradient endpoint is missing.
	ErrEmptyColor = errors.New("from and to colors are required")
	// ErrCountTooLarge indicates the requested gradient is too long.
	ErrCountTooLarge = errors.New("gradient count exceeds maximum")
)

// DashboardConfigInput is the input schema for the dashboard_config tool.
type DashboardConfigInput struct {
	Theme string `json:"theme,omitempty" jsonschema:"light or dark (default: light)"`
}

// GradientInput is the input schema for the gradient_generate tool.
type GradientInput struct {
	From  string `json:"from"            jsonschema:"start color, e.g. #0056b3 or rgb(0, 86, 179)"`
	To    string `json:"to"              jsonschema:"end color, e.g. #00a896"`
	Count int    `json:"count"           jsonschema:"number of colors to generate"`
	Theme string `json:"theme,omitempty" jsonschema:"light or dark; selects the opacity (default: light)"`
}

// DatasetsInput is the input schema for the datasets_list tool.
type DatasetsInput struct{}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// GradientColor is one generated color in the forms callers most often need.
type GradientColor struct {
	CSS   string  `json:"css"`
	Hex   string  `json:"hex"`
	Alpha float64 `json:"alpha"`
}

// DatasetSummary describes one survey dataset.
type DatasetSummary struct {
	ID         dataset.ID `json:"id"`
	Title      string     `json:"title"`
	Labels     []string   `json:"labels"`
	Values     []float64  `json:"values"`
	Total      float64    `json:"total"`
	Proportion bool       `json:"proportion"`
	Charted    bool       `json:"charted"`
}

func (s *Server) handleDashboardConfig(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input DashboardConfigInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	theme, err := themeOrDefault(input.Theme)
	if err != nil {
		return errorResult(err)
	}

	configs, err := s.configs.Configs(theme)
	if err != nil {
		return errorResult(fmt.Errorf("build configs: %w", err))
	}

	return jsonResult(configs)
}

func handleGradient(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input GradientInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.From == "" || input.To == "" {
		return errorResult(ErrEmptyColor)
	}

	if input.Count > MaxGradientCount {
		return errorResult(fmt.Errorf("%w: %d (max %d)", ErrCountTooLarge, input.Count, MaxGradientCount))
	}

	from, err := palette.ParseColor(input.From)
	if err != nil {
		return errorResult(err)
	}

	to, err := palette.ParseColor(input.To)
	if err != nil {
		return errorResult(err)
	}

	theme, err := themeOrDefault(input.Theme)
	if err != nil {
		return errorResult(err)
	}

	gradient := palette.Gradient(from.RGB, to.RGB, input.Count, theme)
	colors := make([]GradientColor, len(gradient))

	for i, c := range gradient {
		colors[i] = GradientColor{CSS: c.String(), Hex: c.Hex(), Alpha: c.A}
	}

	return jsonResult(colors)
}

func (s *Server) handleDatasets(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ DatasetsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	summaries, err := Summaries(s.datasets)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(summaries)
}

// Summaries describes every dataset of reg in registry order.
func Summaries(reg *dataset.Registry) ([]DatasetSummary, error) {
	charted := make(map[dataset.ID]bool)
	for _, id := range dataset.Charted() {
		charted[id] = true
	}

	ids := reg.IDs()
	summaries := make([]DatasetSummary, 0, len(ids))

	for _, id := range ids {
		data, err := reg.Get(id)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, DatasetSummary{
			ID:         id,
			Title:      data.Title,
			Labels:     data.Labels,
			Values:     data.Values,
			Total:      data.Total(),
			Proportion: data.Proportion,
			Charted:    charted[id],
		})
	}

	return summaries, nil
}

func themeOrDefault(name string) (palette.Theme, error) {
	if name == "" {
		return palette.DefaultTheme, nil
	}

	return palette.ParseTheme(name)
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
