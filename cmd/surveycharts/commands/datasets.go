package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/surveycharts/internal/mcp"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
)

// Output formats of the datasets command.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// NewDatasetsCommand creates the datasets subcommand.
func NewDatasetsCommand(g *Global) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List the survey datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			e, err := g.setup(observability.ModeCLI)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			summaries, err := mcp.Summaries(e.datasets)
			if err != nil {
				return err
			}

			return writeSummaries(cmd.OutOrStdout(), format, summaries)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, json or yaml")

	return cmd
}

func writeSummaries(w io.Writer, format string, summaries []mcp.DatasetSummary) error {
	switch strings.ToLower(format) {
	case FormatTable:
		_, err := io.WriteString(w, summaryTable(summaries)+"\n")

		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(summaries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		return enc.Encode(summaries)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func summaryTable(summaries []mcp.DatasetSummary) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"ID", "Title", "Entries", "Total", "Proportion", "Charted"})

	for _, s := range summaries {
		tbl.AppendRow(table.Row{
			s.ID,
			s.Title,
			len(s.Labels),
			strconv.FormatFloat(s.Total, 'f', -1, 64),
			yesNo(s.Proportion),
			yesNo(s.Charted),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d datasets", len(summaries))})

	return tbl.Render()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}
