// Package importer implements the import command, which stores catalog files in the
// configured datastore.
package importer

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
	"github.com/Chris-Schnaufer/sparcd-old/internal/datastore"
)

// Command creates the import command.
func Command(a *app.App) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import catalog-file...",
		Short: "Store catalog files in the datastore",
		Long: `Read the given catalog files and store their images in the configured datastore.
Locations and species already stored are reused by name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, images, err := a.LoadImages(ctx, args...)
			if err != nil {
				return err
			}

			store, err := a.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if replace {
				if err := store.ClearCatalog(ctx); err != nil {
					return err
				}
			}
			if err := store.SaveCatalog(ctx, images); err != nil {
				return err
			}

			counts, err := store.Counts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s images\n", humanize.Comma(int64(len(images))))
			printCounts(cmd, counts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Remove every stored image before importing")

	return cmd
}

func printCounts(cmd *cobra.Command, c datastore.CatalogCounts) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "datastore now holds %s locations, %s species, %s images, %s observations\n",
		humanize.Comma(c.Locations), humanize.Comma(c.Species),
		humanize.Comma(c.Images), humanize.Comma(c.Observations))
}
