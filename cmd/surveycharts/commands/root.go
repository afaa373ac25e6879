package commands

import "github.com/spf13/cobra"

// NewRootCommand builds the surveycharts command tree.
func NewRootCommand() *cobra.Command {
	g := &Global{}

	rootCmd := &cobra.Command{
		Use:   "surveycharts",
		Short: "Themed developer survey dashboard",
		Long: `surveycharts draws the developer survey results as a themed chart
dashboard, served over HTTP, rendered to static files or exported to Excel.

Commands:
  serve     Serve the dashboard over HTTP
  render    Render the dashboard to a directory
  theme     Show or change the stored theme
  gradient  Print an interpolated color gradient
  datasets  List the survey datasets
  export    Export datasets and charts to a workbook
  mcp       Start the MCP server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "config file (default: ./surveycharts.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&g.Quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(
		NewServeCommand(g),
		NewRenderCommand(g),
		NewThemeCommand(g),
		NewGradientCommand(),
		NewDatasetsCommand(g),
		NewExportCommand(g),
		NewMCPCommand(g),
		NewVersionCommand(),
	)

	return rootCmd
}
