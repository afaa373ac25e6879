package dashboard_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dashboard"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/registry"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render/echarts"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

var errBackend = errors.New("backend failure")

// fakeBackend records created configs and fails for selected charts.
type fakeBackend struct {
	mu      sync.Mutex
	created []chartconfig.Config
	failFor map[dataset.ID]bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Create(_ context.Context, mount *surface.Mount, cfg chartconfig.Config) (registry.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[cfg.ChartID] {
		return nil, errBackend
	}

	inst := render.NewInstance(cfg.ChartID, mount)
	if err := inst.Draw(surface.ContentHTML, []byte(cfg.Title)); err != nil {
		return nil, err
	}

	f.created = append(f.created, cfg)

	return inst, nil
}

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRender_TwiceKeepsOneInstancePerChart(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	doc := dashboard.NewDocument(dashboard.Plan())
	backend := &fakeBackend{}
	orch := dashboard.New(doc, backend, dashboard.Options{Logger: quietLogger(&logs)})

	require.NoError(t, orch.Render(context.Background(), palette.ThemeLight))

	first, ok := orch.Instances().Get(dataset.Languages)
	require.True(t, ok)

	require.NoError(t, orch.Render(context.Background(), palette.ThemeDark))

	assert.Equal(t, 6, orch.Instances().Len())
	assert.Len(t, backend.created, 12)
	require.ErrorIs(t, first.Destroy(), registry.ErrInstanceDestroyed)

	second, ok := orch.Instances().Get(dataset.Languages)
	require.True(t, ok)
	assert.NotEqual(t, first.ID(), second.ID())

	for _, mount := range doc.Mounts() {
		content, occupied := mount.Content()
		require.True(t, occupied, mount.ID())

		inst, found := instanceOwning(orch, content.Owner)
		require.True(t, found, mount.ID())
		assert.NotEmpty(t, inst.ChartID())
	}
}

func instanceOwning(orch *dashboard.Orchestrator, owner string) (registry.Instance, bool) {
	for _, chart := range dashboard.Plan() {
		inst, ok := orch.Instances().Get(chart.ID)
		if ok && inst.ID() == owner {
			return inst, true
		}
	}

	return nil, false
}

func TestRender_MissingMountSkipsOnlyThatChart(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	doc := surface.NewDocument(
		dashboard.MountWorkspace, dashboard.MountLanguages, dashboard.MountFrontend,
		dashboard.MountBackend, dashboard.MountStyling,
	)
	orch := dashboard.New(doc, &fakeBackend{}, dashboard.Options{Logger: quietLogger(&logs)})

	err := orch.Render(context.Background(), palette.ThemeLight)
	require.ErrorIs(t, err, surface.ErrMountNotFound)

	assert.Equal(t, 5, orch.Instances().Len())
	_, ok := orch.Instances().Get(dataset.Databases)
	assert.False(t, ok)
	_, ok = orch.Instances().Get(dataset.Styling)
	assert.True(t, ok)
	assert.Contains(t, logs.String(), "chart skipped")
}

func TestRender_FailFastStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	backend := &fakeBackend{failFor: map[dataset.ID]bool{dataset.FrontendFrameworks: true}}
	orch := dashboard.New(dashboard.NewDocument(dashboard.Plan()), backend, dashboard.Options{
		FailFast: true,
		Logger:   quietLogger(&logs),
	})

	err := orch.Render(context.Background(), palette.ThemeLight)
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, 2, orch.Instances().Len())
}

func TestRender_BestEffortContinuesPastFailure(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	backend := &fakeBackend{failFor: map[dataset.ID]bool{dataset.FrontendFrameworks: true}}
	orch := dashboard.New(dashboard.NewDocument(dashboard.Plan()), backend, dashboard.Options{
		Logger: quietLogger(&logs),
	})

	err := orch.Render(context.Background(), palette.ThemeLight)
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, 5, orch.Instances().Len())
}

func TestRender_QuietOnRepeatedRenders(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	orch := dashboard.New(dashboard.NewDocument(dashboard.Plan()), &fakeBackend{}, dashboard.Options{
		Logger: quietLogger(&logs),
	})

	require.NoError(t, orch.Render(context.Background(), palette.ThemeLight))
	require.NoError(t, orch.Render(context.Background(), palette.ThemeDark))
	assert.NotContains(t, logs.String(), "level=WARN")
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestRender_Traced(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	orch := dashboard.New(dashboard.NewDocument(dashboard.Plan()), &fakeBackend{}, dashboard.Options{
		Logger: quietLogger(&logs),
		Tracer: tp.Tracer("test"),
	})

	require.NoError(t, orch.Render(context.Background(), palette.ThemeDark))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "dashboard.render", spans[0].Name)
}

func TestRenderOne(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	backend := &fakeBackend{}
	orch := dashboard.New(dashboard.NewDocument(dashboard.Plan()), backend, dashboard.Options{
		Logger: quietLogger(&logs),
	})

	require.NoError(t, orch.Render(context.Background(), palette.ThemeLight))

	before, ok := orch.Instances().Get(dataset.Styling)
	require.True(t, ok)
	untouched, ok := orch.Instances().Get(dataset.Workspace)
	require.True(t, ok)

	require.NoError(t, orch.RenderOne(context.Background(), palette.ThemeDark, dataset.Styling))

	after, ok := orch.Instances().Get(dataset.Styling)
	require.True(t, ok)
	assert.NotEqual(t, before.ID(), after.ID())

	still, ok := orch.Instances().Get(dataset.Workspace)
	require.True(t, ok)
	assert.Equal(t, untouched.ID(), still.ID())
	assert.Equal(t, 6, orch.Instances().Len())

	err := orch.RenderOne(context.Background(), palette.ThemeDark, dataset.DevOps)
	require.ErrorIs(t, err, dashboard.ErrChartNotPlanned)
}

func TestRender_UnknownTheme(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	orch := dashboard.New(dashboard.NewDocument(dashboard.Plan()), &fakeBackend{}, dashboard.Options{
		Logger: quietLogger(&logs),
	})

	err := orch.Render(context.Background(), palette.Theme("sepia"))
	require.ErrorIs(t, err, palette.ErrUnknownTheme)
	assert.Zero(t, orch.Instances().Len())
}

func TestRender_WithEChartsBackend(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	doc := dashboard.NewDocument(dashboard.Plan())
	orch := dashboard.New(doc, echarts.NewBackend(echarts.DefaultStyle()), dashboard.Options{
		Logger: quietLogger(&logs),
	})

	require.NoError(t, orch.Render(context.Background(), palette.ThemeDark))

	mount, err := doc.Mount(dashboard.MountStyling)
	require.NoError(t, err)

	content, ok := mount.Content()
	require.True(t, ok)
	assert.Contains(t, string(content.Data), "Tailwind")
}
