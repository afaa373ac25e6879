package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/surveycharts/pkg/config"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
	"github.com/Sumatoshi-tech/surveycharts/pkg/workbook"
)

// ErrNoOutputFile is returned when the export --output flag is not set.
var ErrNoOutputFile = errors.New("output file is required (use --output)")

// NewExportCommand creates the export subcommand.
func NewExportCommand(g *Global) *cobra.Command {
	var (
		output string
		theme  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the datasets and their charts to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				return ErrNoOutputFile
			}

			ctx := cmd.Context()

			e, err := g.setup(observability.ModeCLI)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			doc, orch := e.dashboard(e.backend(config.BackendRaster))

			resolved, err := e.present(ctx, theme, doc, nil)
			if err != nil {
				return err
			}

			configs, err := orch.Configs(resolved)
			if err != nil {
				return fmt.Errorf("build chart configs: %w", err)
			}

			err = workbook.Save(output, e.datasets, configs)
			if err != nil {
				return err
			}

			info, err := os.Stat(output)
			if err != nil {
				return fmt.Errorf("stat %s: %w", output, err)
			}

			if !g.Quiet {
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Exported %d datasets to %s (%s)\n",
					len(e.datasets.IDs()), output, humanize.Bytes(uint64(info.Size()))) //nolint:gosec // sizes are never negative.
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "workbook file to write (.xlsx)")
	cmd.Flags().StringVar(&theme, "theme", "", "light or dark (default: stored preference)")

	return cmd
}
