package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/surveycharts/internal/server"
	"github.com/Sumatoshi-tech/surveycharts/pkg/config"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
	"github.com/Sumatoshi-tech/surveycharts/pkg/prefs"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render/echarts"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand(g *Global) *cobra.Command {
	var (
		addrHost string
		addrPort int
		backend  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey dashboard over HTTP",
		Long: `Serve the themed survey dashboard.

Routes:
  GET  /                    dashboard in the visitor's theme
  POST /theme/toggle        flip the theme and redirect to /
  PUT  /theme/{theme}       set the theme explicitly
  GET  /api/charts          chart configurations as JSON (?theme= overrides)
  GET  /charts/{id}.png     one chart as a PNG image
  GET  /healthz, /readyz, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := g.setup(observability.ModeServe)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			if cmd.Flags().Changed("host") {
				e.cfg.Server.Host = addrHost
			}

			if cmd.Flags().Changed("port") {
				e.cfg.Server.Port = addrPort
			}

			if backend != "" {
				e.cfg.Server.Backend = backend
			}

			if err := e.cfg.Validate(); err != nil {
				return err
			}

			opts, err := e.serverOptions()
			if err != nil {
				return err
			}

			return server.New(opts).ListenAndServe(ctx, e.cfg.Server)
		},
	}

	cmd.Flags().StringVar(&addrHost, "host", config.DefaultServerHost, "listen host")
	cmd.Flags().IntVar(&addrPort, "port", config.DefaultServerPort, "listen port")
	cmd.Flags().StringVar(&backend, "backend", "", "chart backend: echarts or raster (default from config)")

	return cmd
}

func (e *env) serverOptions() (server.Options, error) {
	opts := server.Options{
		Backend:        e.cfg.Server.Backend,
		ECharts:        echarts.Style{Width: e.cfg.Charts.EChartsWidth, Height: e.cfg.Charts.EChartsHeight},
		Raster:         e.rasterSize(),
		FailFast:       e.cfg.Charts.FailFast,
		CookieName:     e.cfg.Preferences.CookieName,
		Datasets:       e.datasets,
		Logger:         e.providers.Logger,
		Tracer:         e.providers.Tracer,
		Metrics:        e.red,
		MetricsHandler: e.providers.MetricsHandler,
	}

	switch e.cfg.Preferences.Store {
	case config.PrefStoreMemory:
		opts.Store = prefs.NewMemoryStore()
	case config.PrefStoreFile:
		store, err := prefs.NewFileStore(e.cfg.Preferences.Dir, e.cfg.Preferences.Format)
		if err != nil {
			return server.Options{}, err
		}

		opts.Store = store
	}

	return opts, nil
}
