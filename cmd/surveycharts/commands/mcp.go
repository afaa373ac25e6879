package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/surveycharts/internal/mcp"
	"github.com/Sumatoshi-tech/surveycharts/pkg/config"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(g *Global) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the survey dashboard as tools that AI agents can
discover and invoke:
  - dashboard_config: chart configurations of the dashboard for a theme
  - gradient_generate: colors interpolated between two endpoints
  - datasets_list: the survey datasets with totals`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				g.Verbose = true
			}

			e, err := g.setup(observability.ModeMCP)
			if err != nil {
				return err
			}
			defer e.close(cmd.Context())

			_, orch := e.dashboard(e.backend(config.BackendRaster))

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:   e.providers.Logger,
				Metrics:  e.red,
				Tracer:   e.providers.Tracer,
				Datasets: e.datasets,
				Configs:  orch,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
