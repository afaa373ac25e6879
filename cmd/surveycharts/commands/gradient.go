package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
)

const (
	swatchWidth   = 6
	channelScale  = 255.0
	defaultCount  = 5
	maxSwatchRows = 1024
)

// ErrGradientEndpoints is returned when --from or --to is missing.
var ErrGradientEndpoints = errors.New("both --from and --to are required")

// ErrGradientCount is returned for counts the terminal output cannot hold.
var ErrGradientCount = errors.New("gradient count out of range")

// NewGradientCommand creates the gradient subcommand.
func NewGradientCommand() *cobra.Command {
	var (
		from  string
		to    string
		count int
		theme string
	)

	cmd := &cobra.Command{
		Use:   "gradient",
		Short: "Print the colors interpolated between two endpoints",
		Long: `Print count colors stepping evenly from --from to --to, with the
opacity of the chosen theme. Colors are given as #rrggbb, rgb(r, g, b),
rgba(r, g, b, a) or r,g,b.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" || to == "" {
				return ErrGradientEndpoints
			}

			if count > maxSwatchRows {
				return fmt.Errorf("%w: %d (max %d)", ErrGradientCount, count, maxSwatchRows)
			}

			start, err := palette.ParseColor(from)
			if err != nil {
				return err
			}

			end, err := palette.ParseColor(to)
			if err != nil {
				return err
			}

			resolved, err := palette.ParseTheme(theme)
			if err != nil {
				return err
			}

			bg, err := palette.DefaultTable()[resolved].Color(palette.BgPrimary)
			if err != nil {
				return err
			}

			colors := palette.Gradient(start.RGB, end.RGB, count, resolved)

			printGradient(cmd.OutOrStdout(), colors, resolved, bg)

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start color")
	cmd.Flags().StringVar(&to, "to", "", "end color")
	cmd.Flags().IntVar(&count, "count", defaultCount, "number of colors")
	cmd.Flags().StringVar(&theme, "theme", string(palette.DefaultTheme), "light or dark; selects the opacity")

	return cmd
}

func printGradient(w io.Writer, colors []palette.RGBA, theme palette.Theme, bg palette.RGB) {
	color.New(color.Bold).Fprintf(w, "%d colors, %s theme (opacity %g)\n", len(colors), theme, theme.Opacity())

	for i, c := range colors {
		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color(composite(c, bg))).
			Render(fmt.Sprintf("%*s", swatchWidth, ""))

		fmt.Fprintf(w, "%3d %s %s %s\n", i, swatch, c.Hex(), c)
	}
}

// composite returns the hex color c shows as when laid over bg, since
// terminals cannot draw translucent cells.
func composite(c palette.RGBA, bg palette.RGB) string {
	return toColorful(bg).BlendRgb(toColorful(c.RGB), c.A).Clamped().Hex()
}

func toColorful(c palette.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / channelScale,
		G: float64(c.G) / channelScale,
		B: float64(c.B) / channelScale,
	}
}
