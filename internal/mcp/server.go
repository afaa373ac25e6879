// Package mcp implements a Model Context Protocol server exposing the
// dashboard chart configurations, the gradient generator and the survey
// datasets as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dashboard"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render/raster"
	"github.com/Sumatoshi-tech/surveycharts/pkg/version"
)

const (
	serverName = "surveycharts"
	tracerName = "surveycharts.mcp"

	// opPrefix names tool spans and metric operations: "mcp.<tool>".
	opPrefix = "mcp."

	// traceIDKey prefixes the trace id appended to results of sampled calls.
	traceIDKey = "trace_id"
)

// ConfigSource builds the chart configurations of the dashboard for a theme.
type ConfigSource interface {
	Configs(theme palette.Theme) ([]chartconfig.Config, error)
}

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics records per-tool RED metrics. Nil disables them.
	Metrics *observability.REDMetrics

	// Tracer creates one span per tool call. Nil disables tracing.
	Tracer trace.Tracer

	// Datasets is the survey data. Nil uses the built-in datasets.
	Datasets *dataset.Registry

	// Configs builds chart configurations. Nil uses the built-in dashboard
	// plan over Datasets.
	Configs ConfigSource
}

// Server wraps the MCP SDK server with the surveycharts tool registrations.
type Server struct {
	inner    *mcpsdk.Server
	metrics  *observability.REDMetrics
	tracer   trace.Tracer
	datasets *dataset.Registry
	configs  ConfigSource

	mu    sync.RWMutex
	tools []string
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{Logger: deps.Logger}

	datasets := deps.Datasets
	if datasets == nil {
		datasets = dataset.Default()
	}

	configs := deps.Configs
	if configs == nil {
		doc := dashboard.NewDocument(dashboard.Plan())
		configs = dashboard.New(doc, raster.NewBackend(raster.DefaultSize()), dashboard.Options{
			Datasets: datasets,
			Logger:   deps.Logger,
		})
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}

	srv := &Server{
		inner:    mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version.Version}, opts),
		metrics:  deps.Metrics,
		tracer:   tracer,
		datasets: datasets,
		configs:  configs,
	}

	addTool(srv, ToolNameDashboardConfig, dashboardConfigDescription, srv.handleDashboardConfig)
	addTool(srv, ToolNameGradient, gradientDescription, handleGradient)
	addTool(srv, ToolNameDatasets, datasetsDescription, srv.handleDatasets)

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := slices.Clone(s.tools)
	slices.Sort(names)

	return names
}

// Run serves on stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until ctx is canceled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// addTool registers handler under name. Each call runs in its own span and
// is counted as operation "mcp.<name>"; a result flagged IsError counts as a
// failure. Sampled calls carry their trace id as a final text item.
func addTool[In any](
	s *Server,
	name, description string,
	handler func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, ToolOutput, error),
) {
	op := opPrefix + name

	instrumented := func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := s.tracer.Start(ctx, op,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", name)),
		)
		defer span.End()

		done := s.metrics.Start(ctx, op)

		result, output, err := handler(ctx, req, input)

		failed := err != nil || (result != nil && result.IsError)
		if failed {
			span.SetStatus(codes.Error, "tool call failed")
			done(observability.StatusError)
		} else {
			done(observability.StatusOK)
		}

		if sc := span.SpanContext(); sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: traceIDKey + "=" + sc.TraceID().String()})
		}

		return result, output, err
	}

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{Name: name, Description: description}, instrumented)

	s.mu.Lock()
	s.tools = append(s.tools, name)
	s.mu.Unlock()
}

const (
	dashboardConfigDescription = "Build the declarative configuration of every dashboard chart " +
		"(colors, tooltip, scales, legend) for a light or dark theme."

	gradientDescription = "Generate a color gradient between two colors. " +
		"Colors accept #rrggbb, rgb(), rgba() or r,g,b forms."

	datasetsDescription = "List the survey datasets with their labels, values and totals."
)
