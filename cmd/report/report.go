package report

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Chris-Schnaufer/sparcd-old/cmd/filterflags"
	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/report"
)

// Command creates the report command, which prints the analysis report for a set of
// catalog files or, without arguments, for the images in the datastore.
func Command(a *app.App) *cobra.Command {
	var (
		sections []string
		output   string
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "report [catalog files...]",
		Short: "Print the analysis report",
		Long: `Print the analysis report for the images in the given catalog files (CSV, YAML or
JSON). Without files the images stored in the configured datastore are used.`,
	}
	filters := filterflags.Add(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if list {
			opts, err := a.ReportOptions()
			if err != nil {
				return err
			}
			for _, name := range report.Names(report.All(opts)) {
				cmd.Println(name)
			}
			return nil
		}

		selected, err := a.Sections(sections)
		if err != nil {
			return err
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
		images = filter.Query(images)

		ac := a.NewContext(images)
		gen := report.NewGenerator(selected,
			report.WithParallelism(a.Settings.Report.Parallelism),
			report.WithMetrics(a.Metrics.Report))
		rep, err := gen.Generate(cmd.Context(), ac, ac.ImagesByDate())
		if err != nil {
			return err
		}

		if output == "" {
			_, err = rep.WriteTo(cmd.OutOrStdout())
			return err
		}
		return writeFile(output, rep)
	}

	cmd.Flags().StringSliceVarP(&sections, "sections", "s", nil, "Sections to print (default from config, or all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&list, "list-sections", false, "List the available section names and exit")

	return cmd
}

func writeFile(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New(err).
			Component("cli").
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}
	if _, err := rep.WriteTo(f); err != nil {
		f.Close()
		return errors.New(err).
			Component("cli").
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Global().Module("cli").Info("report written",
		logger.String("path", path),
		logger.String("run_id", rep.RunID),
		logger.Int("sections", len(rep.Results)))
	return nil
}
