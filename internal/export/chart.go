package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/query"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var barColor = color.RGBA{R: 70, G: 110, B: 160, A: 255}

// NewActivityChart plots the hourly activity of species as a 24 bar chart.
func NewActivityChart(ac *analysis.Context, images []*model.ImageRecord, species *model.Species) (*plot.Plot, error) {
	hourly := ac.HourlyActivity(query.New().SpeciesOnly(species).Query(images))

	values := make(plotter.Values, analysis.HoursPerDay)
	labels := make([]string, analysis.HoursPerDay)
	for h, n := range hourly {
		values[h] = float64(n)
		labels[h] = fmt.Sprintf("%02d", h)
	}

	p := plot.New()
	p.Title.Text = species.Name + " hourly activity"
	p.X.Label.Text = "Hour"
	p.Y.Label.Text = "Activity"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, errors.New(err).
			Component("export").
			Category(errors.CategoryExport).
			Context("species", species.Name).
			Build()
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)
	return p, nil
}

// WriteActivityChart renders the activity chart of species as PNG to w.
func WriteActivityChart(w io.Writer, ac *analysis.Context, images []*model.ImageRecord, species *model.Species) error {
	p, err := NewActivityChart(ac, images, species)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return renderError(err, species)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return renderError(err, species)
	}
	return nil
}

// ActivityChart saves the activity chart of species to path. The image format follows
// the file extension (png, svg, pdf, ...).
func ActivityChart(ac *analysis.Context, images []*model.ImageRecord, species *model.Species, path string) error {
	p, err := NewActivityChart(ac, images, species)
	if err != nil {
		return err
	}
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			Context("species", species.Name).
			FileContext(path).
			Build()
	}
	return nil
}

// ActivityCharts writes one PNG per species in ac to dir and returns the written paths.
func ActivityCharts(ac *analysis.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			FileContext(dir).
			Build()
	}

	images := ac.ImagesByDate()
	paths := make([]string, 0, len(ac.Species()))
	for _, s := range ac.Species() {
		path := filepath.Join(dir, ChartFileName(s))
		if err := ActivityChart(ac, images, s, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	GetLogger().Info("activity charts written", logger.String("dir", dir), logger.Int("charts", len(paths)))
	return paths, nil
}

// ChartFileName maps a species to a file name safe on every platform.
func ChartFileName(s *model.Species) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return '-'
		}
	}, strings.TrimSpace(s.Name))
	name = strings.Trim(name, "-")
	if name == "" {
		name = "species"
	}
	return "activity-" + name + ".png"
}

func renderError(err error, species *model.Species) error {
	return errors.New(err).
		Component("export").
		Category(errors.CategoryExport).
		Context("operation", "render_chart").
		Context("species", species.Name).
		Build()
}
