// Package model defines the camera-trap record types consumed by the analysis core.
//
// Species and Location values are identity keys: two pointers are the same entity only
// when they are the same pointer, even if every field matches. Canonical instances are
// handed out by a Registry at the ingestion boundary.
package model

import (
	"slices"
	"strings"
	"time"
)

// Location is a named camera site.
type Location struct {
	Name      string  // unique display key
	Latitude  float64 // decimal degrees
	Longitude float64 // decimal degrees
	Elevation float64 // metres
}

// Species is an observed animal taxon.
type Species struct {
	Name           string // common name
	ScientificName string
}

// SpeciesObservation records how many individuals of one species appear in an image.
type SpeciesObservation struct {
	Species *Species
	Count   int
}

// ImageRecord is one camera-trap image.
type ImageRecord struct {
	Path           string               // optional source path, informational only
	DateTaken      time.Time            // required
	LocationTaken  *Location            // nil when the image has no location tag
	SpeciesPresent []SpeciesObservation // ordered as tagged
}

// HasSpecies reports whether any observation on the image references species.
func (r *ImageRecord) HasSpecies(species *Species) bool {
	for i := range r.SpeciesPresent {
		if r.SpeciesPresent[i].Species == species {
			return true
		}
	}
	return false
}

// MaxCount returns the largest observation count on the image. A nil species matches
// every observation.
func (r *ImageRecord) MaxCount(species *Species) int {
	maxCount := 0
	for i := range r.SpeciesPresent {
		obs := r.SpeciesPresent[i]
		if species != nil && obs.Species != species {
			continue
		}
		maxCount = max(maxCount, obs.Count)
	}
	return maxCount
}

// SortLocationsByName sorts locations in place by name.
func SortLocationsByName(locations []*Location) {
	slices.SortStableFunc(locations, func(a, b *Location) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// SortSpeciesByName sorts species in place by name.
func SortSpeciesByName(species []*Species) {
	slices.SortStableFunc(species, func(a, b *Species) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Snapshot returns a shallow copy of images. The records themselves are shared.
func Snapshot(images []*ImageRecord) []*ImageRecord {
	if images == nil {
		return []*ImageRecord{}
	}
	return slices.Clone(images)
}
