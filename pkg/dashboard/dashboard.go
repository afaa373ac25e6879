// Package dashboard regenerates the dashboard charts for a theme: it tears
// down the live chart instances, derives the theme defaults and creates
// each chart of the plan through a rendering backend.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/chartstyle"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/registry"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

// ErrChartNotPlanned is returned for chart ids that are not on the dashboard.
var ErrChartNotPlanned = errors.New("chart not on the dashboard")

const (
	opRender      = "dashboard.render"
	opRenderChart = "dashboard.render_chart"
	tracerName    = "surveycharts.dashboard"
)

// Options tune an Orchestrator. Zero values select the built-in palette
// table, data and plan, best-effort rendering, the default logger and no
// tracing or metrics.
type Options struct {
	Table    palette.Table
	Datasets *dataset.Registry
	Plan     []Chart

	// FailFast stops a render at the first chart that fails instead of
	// skipping it and continuing.
	FailFast bool

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.REDMetrics
}

// Orchestrator owns the live chart instances of one document.
type Orchestrator struct {
	doc       *surface.Document
	backend   render.Backend
	table     palette.Table
	datasets  *dataset.Registry
	plan      []Chart
	failFast  bool
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *observability.REDMetrics
	instances *registry.Registry

	mu sync.Mutex
}

// New creates an orchestrator drawing into doc through backend.
func New(doc *surface.Document, backend render.Backend, opts Options) *Orchestrator {
	orch := &Orchestrator{
		doc:       doc,
		backend:   backend,
		table:     opts.Table,
		datasets:  opts.Datasets,
		plan:      opts.Plan,
		failFast:  opts.FailFast,
		logger:    opts.Logger,
		tracer:    opts.Tracer,
		metrics:   opts.Metrics,
		instances: registry.New(),
	}

	if orch.table == nil {
		orch.table = palette.DefaultTable()
	}

	if orch.datasets == nil {
		orch.datasets = dataset.Default()
	}

	if orch.plan == nil {
		orch.plan = Plan()
	}

	if orch.logger == nil {
		orch.logger = slog.Default()
	}

	if orch.tracer == nil {
		orch.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}

	return orch
}

// NewDocument creates a document with one mount per chart of plan.
func NewDocument(plan []Chart) *surface.Document {
	return surface.NewDocument(MountIDs(plan)...)
}

// Document returns the document the orchestrator draws into.
func (o *Orchestrator) Document() *surface.Document {
	return o.doc
}

// Instances returns the live instance registry.
func (o *Orchestrator) Instances() *registry.Registry {
	return o.instances
}

// Render destroys every live chart and recreates the whole plan for theme.
// In best-effort mode a failing chart is logged and skipped, and the joined
// failures are returned once every chart has been attempted.
func (o *Orchestrator) Render(ctx context.Context, theme palette.Theme) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.observe(ctx, opRender, theme, func(ctx context.Context) error {
		return o.renderAll(ctx, theme)
	})
}

// RenderOne replaces a single chart for theme.
func (o *Orchestrator) RenderOne(ctx context.Context, theme palette.Theme, id dataset.ID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.observe(ctx, opRenderChart, theme, func(ctx context.Context) error {
		chart, err := o.chart(id)
		if err != nil {
			return err
		}

		if removeErr := o.instances.Remove(id); removeErr != nil {
			o.logger.WarnContext(ctx, "destroy chart failed", "chart", id, "error", removeErr)
		}

		defaults, err := chartstyle.Apply(o.table, theme)
		if err != nil {
			return fmt.Errorf("render %s: %w", id, err)
		}

		return o.create(ctx, chart, defaults)
	})
}

// Titles maps each planned mount id to the title of the dataset it plots.
// Charts whose dataset is missing are left out.
func (o *Orchestrator) Titles() map[string]string {
	titles := make(map[string]string, len(o.plan))

	for _, chart := range o.plan {
		data, err := o.datasets.Get(chart.ID)
		if err != nil {
			continue
		}

		titles[chart.MountID] = data.Title
	}

	return titles
}

// Configs builds the configuration of every planned chart for theme without
// drawing anything.
func (o *Orchestrator) Configs(theme palette.Theme) ([]chartconfig.Config, error) {
	defaults, err := chartstyle.Apply(o.table, theme)
	if err != nil {
		return nil, err
	}

	configs := make([]chartconfig.Config, 0, len(o.plan))

	for _, chart := range o.plan {
		cfg, buildErr := o.build(chart, defaults)
		if buildErr != nil {
			return nil, buildErr
		}

		configs = append(configs, cfg)
	}

	return configs, nil
}

// Config builds the configuration of one planned chart for theme.
func (o *Orchestrator) Config(theme palette.Theme, id dataset.ID) (chartconfig.Config, error) {
	chart, err := o.chart(id)
	if err != nil {
		return chartconfig.Config{}, err
	}

	defaults, err := chartstyle.Apply(o.table, theme)
	if err != nil {
		return chartconfig.Config{}, err
	}

	return o.build(chart, defaults)
}

func (o *Orchestrator) observe(ctx context.Context, op string, theme palette.Theme, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("theme", string(theme)),
		attribute.String("backend", o.backend.Name()),
	))
	defer span.End()

	done := o.metrics.Start(ctx, op)
	err := fn(ctx)
	done(observability.Status(err))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (o *Orchestrator) renderAll(ctx context.Context, theme palette.Theme) error {
	if err := o.instances.DestroyAll(); err != nil {
		if o.failFast {
			return fmt.Errorf("destroy charts: %w", err)
		}

		o.logger.WarnContext(ctx, "destroy charts failed", "error", err)
	}

	defaults, err := chartstyle.Apply(o.table, theme)
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	var errs []error

	for _, chart := range o.plan {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(append(errs, ctxErr)...)
		}

		createErr := o.create(ctx, chart, defaults)
		if createErr == nil {
			continue
		}

		if o.failFast {
			return createErr
		}

		o.logger.ErrorContext(ctx, "chart skipped", "chart", chart.ID, "error", createErr)
		errs = append(errs, createErr)
	}

	o.logger.DebugContext(ctx, "dashboard rendered",
		"theme", theme, "backend", o.backend.Name(), "charts", o.instances.Len())

	return errors.Join(errs...)
}

func (o *Orchestrator) create(ctx context.Context, chart Chart, defaults chartstyle.Defaults) error {
	cfg, err := o.build(chart, defaults)
	if err != nil {
		return err
	}

	mount, err := o.doc.Mount(chart.MountID)
	if err != nil {
		return fmt.Errorf("chart %s: %w", chart.ID, err)
	}

	inst, err := o.backend.Create(ctx, mount, cfg)
	if err != nil {
		return fmt.Errorf("chart %s: %w", chart.ID, err)
	}

	if replaceErr := o.instances.Replace(inst); replaceErr != nil {
		o.logger.WarnContext(ctx, "previous chart instance not destroyed cleanly", "chart", chart.ID, "error", replaceErr)
	}

	return nil
}

func (o *Orchestrator) build(chart Chart, defaults chartstyle.Defaults) (chartconfig.Config, error) {
	data, err := o.datasets.Get(chart.ID)
	if err != nil {
		return chartconfig.Config{}, fmt.Errorf("chart %s: %w", chart.ID, err)
	}

	pal := defaults.Palette

	return chartconfig.Build(chartconfig.Input{
		Spec:        chart.Spec,
		ID:          chart.ID,
		Data:        data,
		Colors:      chart.Colors.Resolve(pal, defaults.Theme, data.Len()),
		BorderColor: chart.Border.CSS(pal),
	}, defaults)
}

func (o *Orchestrator) chart(id dataset.ID) (Chart, error) {
	for _, c := range o.plan {
		if c.ID == id {
			return c, nil
		}
	}

	return Chart{}, fmt.Errorf("%w: %s", ErrChartNotPlanned, id)
}
