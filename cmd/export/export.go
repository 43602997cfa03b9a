package export

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Chris-Schnaufer/sparcd-old/cmd/filterflags"
	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/export"
)

// Command creates the export command, which writes the aggregate JSON document and the
// per-species activity charts.
func Command(a *app.App) *cobra.Command {
	var jsonPath, chartDir string

	cmd := &cobra.Command{
		Use:   "export [catalog files...]",
		Short: "Export aggregates as JSON and activity charts as PNG",
		Long: `Export catalog aggregates to a JSON file and/or one hourly activity chart per
species. Without catalog files the configured datastore is used.`,
	}
	filters := filterflags.Add(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if jsonPath == "" && chartDir == "" {
			return errors.Newf("nothing to export, set --json or --chart-dir").
				Component("cli").
				Category(errors.CategoryValidation).
				Build()
		}

		reg, images, err := a.LoadImages(cmd.Context(), args...)
		if err != nil {
			return err
		}
		tz, err := a.Timezone()
		if err != nil {
			return err
		}
		opts, err := filters.Options(tz)
		if err != nil {
			return err
		}
		filter, err := app.Filter(reg, opts)
		if err != nil {
			return err
		}
		ac := a.NewContext(filter.Query(images))

		out := cmd.OutOrStdout()
		if jsonPath != "" {
			if err := export.WriteJSONFile(jsonPath, export.BuildAggregates(ac, uuid.NewString())); err != nil {
				return err
			}
			fmt.Fprintf(out, "aggregates written to %s\n", jsonPath)
		}
		if chartDir != "" {
			paths, err := export.ActivityCharts(ac, chartDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d activity charts written to %s\n", len(paths), chartDir)
		}
		return nil
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "Write aggregates to this JSON file")
	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "Write one activity chart per species to this directory")

	return cmd
}
