package distance

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
	"github.com/Chris-Schnaufer/sparcd-old/internal/geo"
)

// Command creates the distance command, which prints the distance between every pair of
// camera locations.
func Command(a *app.App) *cobra.Command {
	var sorted bool

	cmd := &cobra.Command{
		Use:   "distance [catalog files...]",
		Short: "Print distances between camera locations",
		Long: `Print the great-circle distance between every pair of locations in the given
catalog files, or in the configured datastore when no files are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := a.LoadImages(cmd.Context(), args...)
			if err != nil {
				return err
			}

			pairs := geo.Pairs(reg.AllLocations())
			if sorted {
				slices.SortStableFunc(pairs, func(x, y geo.Pair) int {
					switch {
					case x.Km < y.Km:
						return -1
					case x.Km > y.Km:
						return 1
					}
					return 0
				})
			}

			out := cmd.OutOrStdout()
			for _, p := range pairs {
				fmt.Fprintf(out, "%s - %s: %s km\n", p.A.Name, p.B.Name, FormatKm(p.Km))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sorted, "sort", false, "Order pairs from nearest to farthest")

	return cmd
}

// FormatKm renders a distance with thousands separators and two decimals.
func FormatKm(km float64) string {
	return humanize.FormatFloat("#,###.##", km)
}
