package catalog

import (
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the YAML and JSON catalog layout: sites and taxa are declared once and
// images refer to them by name.
type Document struct {
	Locations []LocationEntry `json:"locations" yaml:"locations"`
	Species   []SpeciesEntry  `json:"species" yaml:"species"`
	Images    []DocumentImage `json:"images" yaml:"images"`
}

// DocumentImage is one image in a Document.
type DocumentImage struct {
	Path      string             `json:"path,omitempty" yaml:"path,omitempty"`
	DateTaken string             `json:"date_taken" yaml:"date_taken"`
	Location  string             `json:"location,omitempty" yaml:"location,omitempty"`
	Species   []ObservationEntry `json:"species,omitempty" yaml:"species,omitempty"`
}

// ReadDocument decodes a YAML or JSON Document. Unknown fields are rejected.
func (r *Reader) ReadDocument(src io.Reader, format Format) ([]*model.ImageRecord, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(src)
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	case FormatJSON:
		dec := json.NewDecoder(src)
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	default:
		return nil, errors.Newf("%s is not a document format", format).
			Component("catalog").
			Category(errors.CategoryValidation).
			Build()
	}
	if err == io.EOF {
		return []*model.ImageRecord{}, nil
	}
	if err != nil {
		return nil, parseError(err, string(format)+" document")
	}

	for i := range doc.Locations {
		loc := doc.Locations[i]
		if err := loc.Validate(); err != nil {
			return nil, parseError(fmt.Errorf("location %q: %w", loc.Name, err), "locations["+strconv.Itoa(i)+"]")
		}
		r.registry.Location(loc.Name, loc.Latitude, loc.Longitude, loc.Elevation)
	}
	for i := range doc.Species {
		sp := doc.Species[i]
		if err := sp.Validate(); err != nil {
			return nil, parseError(err, "species["+strconv.Itoa(i)+"]")
		}
		r.registry.Species(sp.Name, sp.ScientificName)
	}

	entries := make([]*imageEntry, 0, len(doc.Images))
	for i, di := range doc.Images {
		taken, err := r.parseTime(di.DateTaken)
		if err != nil {
			return nil, parseError(err, "images["+strconv.Itoa(i)+"]")
		}
		entries = append(entries, &imageEntry{
			Path:         di.Path,
			DateTaken:    taken,
			Location:     di.Location,
			Observations: di.Species,
		})
	}

	images, err := r.resolve(entries)
	if err != nil {
		return nil, err
	}

	r.log.Debug("catalog document decoded",
		logger.String("format", string(format)),
		logger.Int("locations", len(doc.Locations)),
		logger.Int("species", len(doc.Species)),
		logger.Int("images", len(images)))
	return images, nil
}

// resolve validates entries and turns names into registry pointers. Unknown names fail
// with the closest registered name suggested.
func (r *Reader) resolve(entries []*imageEntry) ([]*model.ImageRecord, error) {
	images := make([]*model.ImageRecord, 0, len(entries))
	for i, e := range entries {
		position := "image " + strconv.Itoa(i+1)
		if err := e.Validate(); err != nil {
			return nil, parseError(err, position)
		}

		img := &model.ImageRecord{Path: e.Path, DateTaken: e.DateTaken}

		if e.Location != "" {
			loc, ok := r.registry.LookupLocation(e.Location)
			if !ok {
				return nil, unknownName("location", e.Location, r.registry.SuggestLocation(e.Location), position)
			}
			img.LocationTaken = loc
		}

		for _, obs := range e.Observations {
			sp, ok := r.registry.LookupSpecies(obs.Name)
			if !ok {
				return nil, unknownName("species", obs.Name, r.registry.SuggestSpecies(obs.Name), position)
			}
			img.SpeciesPresent = append(img.SpeciesPresent, model.SpeciesObservation{Species: sp, Count: obs.Count})
		}

		images = append(images, img)
	}
	return images, nil
}

func unknownName(kind, name, suggestion, position string) error {
	msg := fmt.Sprintf("unknown %s %q", kind, name)
	if suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return errors.New(errors.NewStd(msg)).
		Component("catalog").
		Category(errors.CategoryNotFound).
		Context("position", position).
		Context(kind, name).
		Build()
}

// WriteDocument encodes images as a Document, declaring every referenced location and
// species once.
func WriteDocument(w io.Writer, format Format, images []*model.ImageRecord) error {
	doc := Document{Images: make([]DocumentImage, 0, len(images))}
	seenLoc := make(map[*model.Location]bool)
	seenSp := make(map[*model.Species]bool)

	for _, img := range images {
		di := DocumentImage{Path: img.Path, DateTaken: img.DateTaken.Format(timeLayouts[0])}
		if loc := img.LocationTaken; loc != nil {
			di.Location = loc.Name
			if !seenLoc[loc] {
				seenLoc[loc] = true
				doc.Locations = append(doc.Locations, LocationEntry{
					Name: loc.Name, Latitude: loc.Latitude, Longitude: loc.Longitude, Elevation: loc.Elevation,
				})
			}
		}
		for _, obs := range img.SpeciesPresent {
			di.Species = append(di.Species, ObservationEntry{Name: obs.Species.Name, Count: obs.Count})
			if !seenSp[obs.Species] {
				seenSp[obs.Species] = true
				doc.Species = append(doc.Species, SpeciesEntry{Name: obs.Species.Name, ScientificName: obs.Species.ScientificName})
			}
		}
		doc.Images = append(doc.Images, di)
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("%s is not a document format", format)
	}
}
