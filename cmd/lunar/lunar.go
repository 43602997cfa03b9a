package lunar

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Chris-Schnaufer/sparcd-old/cmd/filterflags"
	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/lunar"
)

// Event is one new or full moon.
type Event struct {
	At    time.Time
	Phase string
}

// Command creates the lunar command, which lists new and full moons in a date range.
func Command(a *app.App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "lunar",
		Short: "List new and full moons",
		Long:  "List the new and full moons between two dates, in the configured timezone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tz, err := a.Timezone()
			if err != nil {
				return err
			}
			first, last, err := dateRange(from, to, tz)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range Events(first, last, a.Settings.Analysis.LunarStep()) {
				illum := lunar.PhaseAngle(lunar.ToJulianDay(e.At)).Illumination
				fmt.Fprintf(out, "%-4s  %s  %5.1f%%\n", e.Phase, e.At.In(tz).Format("2006-01-02 15:04 MST"), illum*100)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD, default January 1 of this year)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD, default December 31 of this year)")

	return cmd
}

// Events returns the full and new moons in [first, last] merged in time order.
func Events(first, last time.Time, step time.Duration) []Event {
	var events []Event
	for _, t := range lunar.Enumerate(first, last, lunar.FullMoon, step) {
		events = append(events, Event{At: t, Phase: "full"})
	}
	for _, t := range lunar.Enumerate(first, last, lunar.NewMoon, step) {
		events = append(events, Event{At: t, Phase: "new"})
	}
	slices.SortFunc(events, func(a, b Event) int { return a.At.Compare(b.At) })
	return events
}

func dateRange(from, to string, tz *time.Location) (time.Time, time.Time, error) {
	year := time.Now().In(tz).Year()
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, tz)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, tz)

	var err error
	if from != "" {
		if first, err = filterflags.ParseDate(from, tz); err != nil {
			return first, last, err
		}
	}
	if to != "" {
		if last, err = filterflags.ParseDate(to, tz); err != nil {
			return first, last, err
		}
	}
	last = last.AddDate(0, 0, 1).Add(-time.Nanosecond)
	if last.Before(first) {
		return first, last, errors.Newf("date range ends before it starts").
			Component("cli").
			Category(errors.CategoryValidation).
			Context("from", from).
			Context("to", to).
			Build()
	}
	return first, last, nil
}
