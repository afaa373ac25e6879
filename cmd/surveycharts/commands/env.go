// Package commands implements the surveycharts subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/surveycharts/pkg/config"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dashboard"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/prefs"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render/echarts"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render/raster"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
	"github.com/Sumatoshi-tech/surveycharts/pkg/toggle"
	"github.com/Sumatoshi-tech/surveycharts/pkg/version"
)

// Global holds the persistent flags of the root command.
type Global struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// env is what a command runs with: validated configuration, telemetry
// providers and the survey data.
type env struct {
	cfg       *config.Config
	providers observability.Providers
	red       *observability.REDMetrics
	datasets  *dataset.Registry
}

func (g *Global) setup(mode observability.AppMode) (*env, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(g.observabilityConfig(cfg, mode))
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, shutdownAfter(providers, err)
	}

	datasets, err := loadDatasets(cfg.Charts.DatasetsFile, providers.Logger)
	if err != nil {
		return nil, shutdownAfter(providers, err)
	}

	return &env{cfg: cfg, providers: providers, red: red, datasets: datasets}, nil
}

func (g *Global) observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceName = cfg.Telemetry.ServiceName
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = cfg.Telemetry.OTLPHeaders
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.DebugTrace = cfg.Telemetry.DebugTrace
	obsCfg.PrometheusEnabled = cfg.Telemetry.Prometheus && mode == observability.ModeServe
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.JSON() || mode == observability.ModeMCP

	switch {
	case g.Quiet:
		obsCfg.LogLevel = slog.LevelError
	case g.Verbose:
		obsCfg.LogLevel = slog.LevelDebug
	}

	return obsCfg
}

func shutdownAfter(providers observability.Providers, err error) error {
	shutdownErr := providers.Shutdown(context.Background())
	if shutdownErr != nil {
		providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}

	return err
}

func (e *env) close(ctx context.Context) {
	err := e.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		e.providers.Logger.WarnContext(ctx, "observability shutdown failed", "error", err)
	}
}

// loadDatasets returns the built-in datasets with the entries of path, if
// set, replacing or adding to them. Proportion totals of the file are
// checked here, once per run.
func loadDatasets(path string, logger *slog.Logger) (*dataset.Registry, error) {
	if path == "" {
		return dataset.Default(), nil
	}

	override, err := dataset.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := dataset.CheckProportions(override); err != nil {
		logger.Warn("proportion dataset does not add up", "file", path, "error", err)
	}

	return dataset.Default().Merge(override)
}

// preferenceStore returns the store named by the configuration. Cookies only
// exist in the server, so the CLI keeps them in the file store instead.
func (e *env) preferenceStore() (prefs.Store, error) {
	if e.cfg.Preferences.Store == config.PrefStoreMemory {
		return prefs.NewMemoryStore(), nil
	}

	return prefs.NewFileStore(e.cfg.Preferences.Dir, e.cfg.Preferences.Format)
}

func (e *env) backend(name string) render.Backend {
	if name == config.BackendRaster {
		return raster.NewBackend(e.rasterSize())
	}

	return echarts.NewBackend(echarts.Style{
		Width:  e.cfg.Charts.EChartsWidth,
		Height: e.cfg.Charts.EChartsHeight,
	})
}

func (e *env) rasterSize() raster.Size {
	return raster.Size{Width: e.cfg.Charts.Width, Height: e.cfg.Charts.Height}
}

// dashboard creates a document for the built-in plan and the orchestrator
// drawing into it.
func (e *env) dashboard(backend render.Backend) (*surface.Document, *dashboard.Orchestrator) {
	plan := dashboard.Plan()
	doc := dashboard.NewDocument(plan)

	orch := dashboard.New(doc, backend, dashboard.Options{
		Datasets: e.datasets,
		Plan:     plan,
		FailFast: e.cfg.Charts.FailFast,
		Logger:   e.providers.Logger,
		Tracer:   e.providers.Tracer,
		Metrics:  e.red,
	})

	return doc, orch
}

// present applies the flag theme, or the stored preference when the flag is
// empty, to doc and renders the charts through renderer. A nil renderer only
// applies the theme. The flag is never stored.
func (e *env) present(ctx context.Context, flag string, doc *surface.Document, renderer toggle.Renderer) (palette.Theme, error) {
	store, err := e.preferenceStore()
	if err != nil {
		return "", err
	}

	ctrl := toggle.New(doc, store, renderer, e.providers.Logger)

	if flag == "" {
		return ctrl.Initialize(ctx)
	}

	theme, err := palette.ParseTheme(flag)
	if err != nil {
		return "", err
	}

	return theme, ctrl.Show(ctx, theme)
}
