// Package filterflags holds the image selection flags shared by the analysis commands.
package filterflags

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
)

// Values receives the parsed flags.
type Values struct {
	Species      string
	Location     string
	NameContains string
	Year         int
	Months       []int
	From         string
	To           string
}

// Add registers the selection flags on cmd.
func Add(cmd *cobra.Command) *Values {
	v := &Values{}
	cmd.Flags().StringVar(&v.Species, "species", "", "Only images tagged with this species")
	cmd.Flags().StringVar(&v.Location, "location", "", "Only images taken at this location")
	cmd.Flags().StringVar(&v.NameContains, "name-contains", "", "Only species whose common or scientific name contains this text")
	cmd.Flags().IntVar(&v.Year, "year", 0, "Only images taken in this year")
	cmd.Flags().IntSliceVar(&v.Months, "months", nil, "Only images taken in these months (1-12)")
	cmd.Flags().StringVar(&v.From, "from", "", "Only images taken on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&v.To, "to", "", "Only images taken on or before this date (YYYY-MM-DD)")
	return v
}

// Options converts the flags into filter options, reading dates in tz. The to date
// covers its whole day.
func (v *Values) Options(tz *time.Location) (app.FilterOptions, error) {
	opts := app.FilterOptions{
		Species:      v.Species,
		Location:     v.Location,
		NameContains: v.NameContains,
		Year:         v.Year,
		Months:       v.Months,
	}
	var err error
	if v.From != "" {
		if opts.From, err = ParseDate(v.From, tz); err != nil {
			return opts, err
		}
	}
	if v.To != "" {
		if opts.To, err = ParseDate(v.To, tz); err != nil {
			return opts, err
		}
		opts.To = opts.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return opts, nil
}

// ParseDate parses a YYYY-MM-DD date at midnight in tz.
func ParseDate(s string, tz *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, tz)
	if err != nil {
		return time.Time{}, errors.New(err).
			Component("cli").
			Category(errors.CategoryValidation).
			Context("date", s).
			Build()
	}
	return t, nil
}
