package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/surveycharts/pkg/dashboard"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/toggle"
)

// NewThemeCommand creates the theme subcommand and its show, toggle and set
// children.
func NewThemeCommand(g *Global) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the stored theme preference",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.withController(cmd, func(ctx context.Context, ctrl *toggle.Controller) (palette.Theme, error) {
					return ctrl.Load(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Flip the stored theme between light and dark",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.withController(cmd, func(ctx context.Context, ctrl *toggle.Controller) (palette.Theme, error) {
					_, err := ctrl.Load(ctx)
					if err != nil {
						return "", err
					}

					return ctrl.Toggle(ctx)
				})
			},
		},
		&cobra.Command{
			Use:       "set <light|dark>",
			Short:     "Store a theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(palette.ThemeLight), string(palette.ThemeDark)},
			RunE: func(cmd *cobra.Command, args []string) error {
				return g.withController(cmd, func(ctx context.Context, ctrl *toggle.Controller) (palette.Theme, error) {
					theme, err := palette.ParseTheme(args[0])
					if err != nil {
						return "", err
					}

					return theme, ctrl.Set(ctx, theme)
				})
			},
		},
	)

	return cmd
}

func (g *Global) withController(
	cmd *cobra.Command,
	fn func(context.Context, *toggle.Controller) (palette.Theme, error),
) error {
	ctx := cmd.Context()

	e, err := g.setup(observability.ModeCLI)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	store, err := e.preferenceStore()
	if err != nil {
		return err
	}

	doc := dashboard.NewDocument(dashboard.Plan())
	ctrl := toggle.New(doc, store, nil, e.providers.Logger)

	theme, err := fn(ctx, ctrl)
	if err != nil {
		return err
	}

	printTheme(cmd.OutOrStdout(), theme, doc.Button().Icon(), doc.Button().Label())

	return nil
}

func printTheme(w io.Writer, theme palette.Theme, icon, label string) {
	attr := color.FgYellow
	if theme == palette.ThemeDark {
		attr = color.FgBlue
	}

	color.New(attr, color.Bold).Fprintf(w, "%s %s", icon, theme)
	fmt.Fprintf(w, " (%s)\n", label)
}
