package commands

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/surveycharts/pkg/config"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/plotpage"
	"github.com/Sumatoshi-tech/surveycharts/pkg/toggle"
)

const (
	renderOutputFlag  = "output"
	renderOutputShort = "o"
)

// ErrNoOutputDir is returned when the --output flag is not set.
var ErrNoOutputDir = errors.New("output directory is required (use --output)")

// NewRenderCommand creates the render subcommand.
func NewRenderCommand(g *Global) *cobra.Command {
	var (
		outputDir string
		theme     string
		png       bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard to a static HTML directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outputDir == "" {
				return ErrNoOutputDir
			}

			ctx := cmd.Context()

			e, err := g.setup(observability.ModeCLI)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			backend := config.BackendECharts
			if png {
				backend = config.BackendRaster
			}

			doc, orch := e.dashboard(e.backend(backend))

			resolved, err := e.present(ctx, theme, doc, orch)
			if err != nil {
				if !errors.Is(err, toggle.ErrRender) || e.cfg.Charts.FailFast {
					return err
				}

				e.providers.Logger.WarnContext(ctx, "dashboard rendered with skipped charts", "error", err)
			}

			page := plotpage.NewPage().WithCards(doc, orch.Titles())
			writer := &plotpage.StaticWriter{OutputDir: outputDir}

			files, err := writer.Write(page, doc, palette.DefaultTable())
			if err != nil {
				return fmt.Errorf("write dashboard: %w", err)
			}

			if g.Quiet {
				return nil
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "Rendered %s dashboard with %s backend\n", resolved, backend)

			for _, f := range files {
				fmt.Fprintf(out, "  %s (%s)\n", f.Path, humanize.Bytes(uint64(f.Size))) //nolint:gosec // sizes are never negative.
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, renderOutputFlag, renderOutputShort, "", "output directory for the dashboard")
	cmd.Flags().StringVar(&theme, "theme", "", "light or dark (default: stored preference)")
	cmd.Flags().BoolVar(&png, "png", false, "draw charts as PNG images instead of ECharts")

	return cmd
}
