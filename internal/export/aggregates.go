// Package export writes analysis results for tools outside sparcd: a JSON document of
// catalog aggregates and per-species hourly activity charts.
package export

import (
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Aggregates is the exported summary of one image set.
type Aggregates struct {
	RunID                string            `json:"run_id,omitempty"`
	GeneratedAt          time.Time         `json:"generated_at"`
	EventIntervalMinutes int               `json:"event_interval_minutes"`
	ImageCount           int               `json:"image_count"`
	FirstImage           *time.Time        `json:"first_image,omitempty"`
	LastImage            *time.Time        `json:"last_image,omitempty"`
	Years                []int             `json:"years"`
	UnlocatedImages      bool              `json:"unlocated_images"`
	Locations            []LocationSummary `json:"locations"`
	Species              []SpeciesSummary  `json:"species"`
	FullMoons            []time.Time       `json:"full_moons"`
	NewMoons             []time.Time       `json:"new_moons"`
}

// LocationSummary describes one camera site.
type LocationSummary struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
	Images    int     `json:"images"`
	Species   int     `json:"species"`
	Period    int     `json:"period"`
}

// SpeciesSummary holds one species' statistics over the whole image set.
type SpeciesSummary struct {
	Name           string                    `json:"name"`
	ScientificName string                    `json:"scientific_name,omitempty"`
	Images         int                       `json:"images"`
	Activity       int                       `json:"activity"`
	Period         int                       `json:"period"`
	Abundance      int                       `json:"abundance"`
	HourlyActivity [analysis.HoursPerDay]int `json:"hourly_activity"`
	Locations      []string                  `json:"locations"`
	FirstSeen      time.Time                 `json:"first_seen"`
	LastSeen       time.Time                 `json:"last_seen"`
}

// BuildAggregates summarizes ac. runID ties the document to a report run and may be
// empty.
func BuildAggregates(ac *analysis.Context, runID string) Aggregates {
	images := ac.ImagesByDate()

	agg := Aggregates{
		RunID:                runID,
		GeneratedAt:          time.Now(),
		EventIntervalMinutes: int(ac.EventInterval() / time.Minute),
		ImageCount:           len(images),
		Years:                ac.Years(),
		UnlocatedImages:      ac.HasUnlocatedImages(),
		Locations:            make([]LocationSummary, 0, len(ac.Locations())),
		Species:              make([]SpeciesSummary, 0, len(ac.Species())),
		FullMoons:            ac.FullMoons(),
		NewMoons:             ac.NewMoons(),
	}
	if first, last, ok := ac.DateRange(); ok {
		agg.FirstImage, agg.LastImage = &first, &last
	}

	for _, loc := range ac.Locations() {
		atLocation := query.New().LocationOnly(loc).Query(images)
		agg.Locations = append(agg.Locations, LocationSummary{
			Name:      loc.Name,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Elevation: loc.Elevation,
			Images:    len(atLocation),
			Species:   len(ac.SpeciesFor(atLocation)),
			Period:    ac.Period(query.New().AnyValidSpecies().Query(atLocation)),
		})
	}

	for _, s := range ac.Species() {
		agg.Species = append(agg.Species, summarizeSpecies(ac, s, images))
	}

	return agg
}

func summarizeSpecies(ac *analysis.Context, s *model.Species, images []*model.ImageRecord) SpeciesSummary {
	withSpecies := query.New().SpeciesOnly(s).Query(images)

	summary := SpeciesSummary{
		Name:           s.Name,
		ScientificName: s.ScientificName,
		Images:         len(withSpecies),
		Activity:       ac.Activity(withSpecies),
		Period:         ac.Period(withSpecies),
		Abundance:      ac.Abundance(withSpecies, s),
		HourlyActivity: ac.HourlyActivity(withSpecies),
		Locations:      make([]string, 0),
	}
	for _, loc := range ac.LocationsFor(withSpecies) {
		summary.Locations = append(summary.Locations, loc.Name)
	}
	if n := len(withSpecies); n > 0 {
		summary.FirstSeen = withSpecies[0].DateTaken
		summary.LastSeen = withSpecies[n-1].DateTaken
	}
	return summary
}

// WriteJSON writes agg as indented JSON.
func WriteJSON(w io.Writer, agg Aggregates) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(agg); err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryExport).
			Context("operation", "encode_json").
			Build()
	}
	return nil
}

// WriteJSONFile writes agg to path, replacing any existing file.
func WriteJSONFile(path string, agg Aggregates) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}

	if err := WriteJSON(f, agg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}

	GetLogger().Info("aggregates exported",
		logger.String("path", path),
		logger.Int("species", len(agg.Species)),
		logger.Int("locations", len(agg.Locations)))
	return nil
}
