package catalog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LocationEntry is a camera site as written in a catalog.
type LocationEntry struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Elevation float64 `json:"elevation" yaml:"elevation"`
}

// Validate checks the name and coordinate ranges.
func (l *LocationEntry) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Name, validation.Required),
		validation.Field(&l.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&l.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// SpeciesEntry is a taxon as written in a catalog.
type SpeciesEntry struct {
	Name           string `json:"name" yaml:"name"`
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`
}

// Validate checks the name.
func (s *SpeciesEntry) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required),
	)
}

// ObservationEntry names a species and how many individuals an image shows.
type ObservationEntry struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Validate checks the name and that the count is not negative.
func (o ObservationEntry) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Name, validation.Required),
		validation.Field(&o.Count, validation.Min(0)),
	)
}

// imageEntry is a decoded image before its names are resolved.
type imageEntry struct {
	Path         string
	DateTaken    time.Time
	Location     string
	Observations []ObservationEntry
}

// Validate checks the timestamp and every observation.
func (e *imageEntry) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.DateTaken, validation.Required),
		validation.Field(&e.Observations),
	)
}
