// Package catalog reads camera-trap image catalogs from CSV, YAML and JSON files.
//
// Every species and location name is resolved through a model.Registry, so two rows
// naming the same site share one *model.Location. Rows are validated before they become
// records; the analysis packages assume validated input.
package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

// Format is a catalog file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// timeLayouts are tried in order for timestamps. Layouts without a zone are read in the
// reader's timezone.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006:01:02 15:04:05", // EXIF DateTimeOriginal
	"2006-01-02 15:04",
}

// Catalog is a loaded set of images and the registry their species and locations came
// from.
type Catalog struct {
	Registry *model.Registry
	Images   []*model.ImageRecord
	Source   string
}

// Reader decodes catalogs into records.
type Reader struct {
	registry *model.Registry
	tz       *time.Location
	log      logger.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithRegistry resolves names through reg instead of a fresh registry.
func WithRegistry(reg *model.Registry) Option {
	return func(r *Reader) {
		r.registry = reg
	}
}

// WithTimezone reads timestamps without a zone in tz. The default is time.Local.
func WithTimezone(tz *time.Location) Option {
	return func(r *Reader) {
		if tz != nil {
			r.tz = tz
		}
	}
}

// WithLogger replaces the catalog module logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		r.log = l
	}
}

// NewReader returns a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{tz: time.Local}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = model.NewRegistry()
	}
	if r.log == nil {
		r.log = GetLogger()
	}
	return r
}

// Registry returns the registry the reader resolves names through.
func (r *Reader) Registry() *model.Registry { return r.registry }

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Newf("unsupported catalog file extension %q", filepath.Ext(path)).
			Component("catalog").
			Category(errors.CategoryValidation).
			FileContext(path).
			Build()
	}
}

// LoadFile reads the catalog at path, choosing the decoder from its extension.
func (r *Reader) LoadFile(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("catalog").
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.log.Warn("failed to close catalog file", logger.String("path", path), logger.Error(cerr))
		}
	}()

	start := time.Now()
	images, err := r.Read(f, format)
	if err != nil {
		return nil, err
	}

	r.log.Info("catalog loaded",
		logger.String("path", path),
		logger.String("format", string(format)),
		logger.Int("images", len(images)),
		logger.Duration("elapsed", time.Since(start)))

	return &Catalog{Registry: r.registry, Images: images, Source: path}, nil
}

// Read decodes a catalog in format from src.
func (r *Reader) Read(src io.Reader, format Format) ([]*model.ImageRecord, error) {
	switch format {
	case FormatCSV:
		return r.ReadCSV(src)
	case FormatYAML, FormatJSON:
		return r.ReadDocument(src, format)
	default:
		return nil, errors.Newf("unsupported catalog format %q", format).
			Component("catalog").
			Category(errors.CategoryValidation).
			Build()
	}
}

// LoadFile reads the catalog at path with a fresh registry.
func LoadFile(path string, opts ...Option) (*Catalog, error) {
	return NewReader(opts...).LoadFile(path)
}

// parseTime parses s with the first layout that fits.
func (r *Reader) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, r.tz); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseError wraps a decoding failure at a position in the input.
func parseError(err error, position string) error {
	return errors.New(err).
		Component("catalog").
		Category(errors.CategoryFileParsing).
		Context("position", position).
		Build()
}
