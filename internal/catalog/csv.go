package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

// CSV columns. Only date_taken is required; a row without a species is an image with
// nothing tagged and a row without a location is an untagged image.
const (
	colPath           = "path"
	colDateTaken      = "date_taken"
	colLocation       = "location"
	colLatitude       = "latitude"
	colLongitude      = "longitude"
	colElevation      = "elevation"
	colSpecies        = "species"
	colScientificName = "scientific_name"
	colCount          = "count"
)

// CSVHeader is the column order WriteCSV emits.
var CSVHeader = []string{
	colPath, colDateTaken, colLocation, colLatitude, colLongitude, colElevation,
	colSpecies, colScientificName, colCount,
}

type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r csvRow) float(name string) (float64, error) {
	s := r.get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

// ReadCSV decodes one observation per row. Rows sharing a non-empty path and timestamp
// become one image with several observations.
func (r *Reader) ReadCSV(src io.Reader) ([]*model.ImageRecord, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return []*model.ImageRecord{}, nil
	}
	if err != nil {
		return nil, parseError(err, "line 1")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colDateTaken]; !ok {
		return nil, errors.Newf("catalog header is missing the %s column", colDateTaken).
			Component("catalog").
			Category(errors.CategoryValidation).
			Build()
	}

	var entries []*imageEntry
	byKey := make(map[string]*imageEntry)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(err, "csv")
		}
		line, _ := cr.FieldPos(0)
		position := fmt.Sprintf("line %d", line)

		row := csvRow{cols: cols, record: record}
		entry, err := r.csvEntry(row)
		if err != nil {
			return nil, parseError(err, position)
		}

		key := ""
		if entry.Path != "" {
			key = entry.Path + "\x00" + entry.DateTaken.String()
		}
		if existing, ok := byKey[key]; ok && key != "" {
			existing.Observations = append(existing.Observations, entry.Observations...)
			continue
		}
		entries = append(entries, entry)
		if key != "" {
			byKey[key] = entry
		}
	}

	images, err := r.resolve(entries)
	if err != nil {
		return nil, err
	}

	r.log.Debug("csv catalog decoded", logger.Int("images", len(images)))
	return images, nil
}

// csvEntry validates a row and registers its location and species.
func (r *Reader) csvEntry(row csvRow) (*imageEntry, error) {
	taken, err := r.parseTime(row.get(colDateTaken))
	if err != nil {
		return nil, err
	}
	entry := &imageEntry{Path: row.get(colPath), DateTaken: taken}

	if name := row.get(colLocation); name != "" {
		loc := LocationEntry{Name: name}
		if loc.Latitude, err = row.float(colLatitude); err != nil {
			return nil, err
		}
		if loc.Longitude, err = row.float(colLongitude); err != nil {
			return nil, err
		}
		if loc.Elevation, err = row.float(colElevation); err != nil {
			return nil, err
		}
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("location %q: %w", name, err)
		}
		r.registry.Location(loc.Name, loc.Latitude, loc.Longitude, loc.Elevation)
		entry.Location = name
	}

	if name := row.get(colSpecies); name != "" {
		sp := SpeciesEntry{Name: name, ScientificName: row.get(colScientificName)}
		if err := sp.Validate(); err != nil {
			return nil, err
		}
		r.registry.Species(sp.Name, sp.ScientificName)

		count := 1
		if s := row.get(colCount); s != "" {
			if count, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("column %s: %w", colCount, err)
			}
		}
		entry.Observations = append(entry.Observations, ObservationEntry{Name: name, Count: count})
	}

	return entry, nil
}

// WriteCSV writes images one observation per row in CSVHeader column order. Images with
// no observation get one row with empty species columns.
func WriteCSV(w io.Writer, images []*model.ImageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, img := range images {
		base := []string{img.Path, img.DateTaken.Format(timeLayouts[0]), "", "", "", ""}
		if loc := img.LocationTaken; loc != nil {
			base[2] = loc.Name
			base[3] = strconv.FormatFloat(loc.Latitude, 'f', -1, 64)
			base[4] = strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
			base[5] = strconv.FormatFloat(loc.Elevation, 'f', -1, 64)
		}

		if len(img.SpeciesPresent) == 0 {
			if err := cw.Write(append(base, "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, obs := range img.SpeciesPresent {
			row := append(append([]string{}, base...), obs.Species.Name, obs.Species.ScientificName, strconv.Itoa(obs.Count))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
