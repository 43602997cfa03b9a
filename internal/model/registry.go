package model

import (
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// maxSuggestionDistance bounds how far a misspelled name may be from a registered one
// before Suggest gives up.
const maxSuggestionDistance = 3

// Registry hands out canonical Species and Location instances keyed by name so that
// records built from separate sources share identity.
type Registry struct {
	mu        sync.RWMutex
	species   map[string]*Species
	locations map[string]*Location
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		species:   make(map[string]*Species),
		locations: make(map[string]*Location),
	}
}

// Species returns the canonical species registered under name, registering it with the
// given scientific name on first use.
func (r *Registry) Species(name, scientificName string) *Species {
	r.mu.RLock()
	s, ok := r.species[name]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.species[name]; ok {
		return s
	}
	s = &Species{Name: name, ScientificName: scientificName}
	r.species[name] = s
	return s
}

// Location returns the canonical location registered under name. Coordinates supplied
// after the first registration are ignored.
func (r *Registry) Location(name string, lat, lng, elevation float64) *Location {
	r.mu.RLock()
	l, ok := r.locations[name]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locations[name]; ok {
		return l
	}
	l = &Location{Name: name, Latitude: lat, Longitude: lng, Elevation: elevation}
	r.locations[name] = l
	return l
}

// LookupSpecies returns the species registered under name, if any.
func (r *Registry) LookupSpecies(name string) (*Species, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.species[name]
	return s, ok
}

// LookupLocation returns the location registered under name, if any.
func (r *Registry) LookupLocation(name string) (*Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locations[name]
	return l, ok
}

// AllSpecies returns every registered species sorted by name.
func (r *Registry) AllSpecies() []*Species {
	r.mu.RLock()
	out := make([]*Species, 0, len(r.species))
	for _, s := range r.species {
		out = append(out, s)
	}
	r.mu.RUnlock()
	SortSpeciesByName(out)
	return out
}

// AllLocations returns every registered location sorted by name.
func (r *Registry) AllLocations() []*Location {
	r.mu.RLock()
	out := make([]*Location, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, l)
	}
	r.mu.RUnlock()
	SortLocationsByName(out)
	return out
}

// SuggestSpecies returns the registered species name closest to name, or "" when nothing
// is within a few edits.
func (r *Registry) SuggestSpecies(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	candidates := make([]string, 0, len(r.species))
	for n := range r.species {
		candidates = append(candidates, n)
	}
	return closestName(name, candidates)
}

// SuggestLocation returns the registered location name closest to name, or "".
func (r *Registry) SuggestLocation(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	candidates := make([]string, 0, len(r.locations))
	for n := range r.locations {
		candidates = append(candidates, n)
	}
	return closestName(name, candidates)
}

func closestName(name string, candidates []string) string {
	needle := strings.ToLower(name)
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		// ties resolve alphabetically so output is stable across map iteration order
		if d < bestDist || (d == bestDist && c < best) {
			best = c
			bestDist = d
		}
	}
	if bestDist > maxSuggestionDistance {
		return ""
	}
	return best
}
