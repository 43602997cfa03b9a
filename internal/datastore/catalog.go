package datastore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

const saveBatchSize = 500

// CatalogCounts holds table sizes.
type CatalogCounts struct {
	Locations    int64
	Species      int64
	Images       int64
	Observations int64
}

func (ds *DataStore) requireDB() error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// SaveCatalog appends images in one transaction. Locations and species are matched by
// name; existing rows are reused.
func (ds *DataStore) SaveCatalog(ctx context.Context, images []*model.ImageRecord) (err error) {
	start := time.Now()
	defer func() { recordOperation(ds.metrics, metrics.OpSaveCatalog, start, err) }()

	if err := ds.requireDB(); err != nil {
		return err
	}

	observations := 0
	err = ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locationIDs := make(map[*model.Location]uint)
		speciesIDs := make(map[*model.Species]uint)

		rows := make([]ImageRow, 0, len(images))
		for _, img := range images {
			row := ImageRow{Path: img.Path, DateTaken: img.DateTaken.UTC()}
			row.ZoneName, row.ZoneOffset = img.DateTaken.Zone()

			if loc := img.LocationTaken; loc != nil {
				id, ok := locationIDs[loc]
				if !ok {
					locRow := LocationRow{}
					if err := firstOrCreate(tx, LocationRow{Name: loc.Name},
						LocationRow{Latitude: loc.Latitude, Longitude: loc.Longitude, Elevation: loc.Elevation},
						&locRow); err != nil {
						return err
					}
					id = locRow.ID
					locationIDs[loc] = id
				}
				row.LocationID = &id
			}

			for i, obs := range img.SpeciesPresent {
				if obs.Species == nil {
					continue
				}
				id, ok := speciesIDs[obs.Species]
				if !ok {
					spRow := SpeciesRow{}
					if err := firstOrCreate(tx, SpeciesRow{Name: obs.Species.Name},
						SpeciesRow{ScientificName: obs.Species.ScientificName},
						&spRow); err != nil {
						return err
					}
					id = spRow.ID
					speciesIDs[obs.Species] = id
				}
				row.Observations = append(row.Observations, ObservationRow{SpeciesID: id, Count: obs.Count, Position: i})
				observations++
			}

			rows = append(rows, row)
		}

		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, saveBatchSize).Error
	})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", metrics.OpSaveCatalog).
			Context("images", len(images)).
			Timing(metrics.OpSaveCatalog, time.Since(start)).
			Build()
	}

	if ds.metrics != nil {
		ds.metrics.RecordRows(metrics.OpSaveCatalog, "images", len(images))
		ds.metrics.RecordRows(metrics.OpSaveCatalog, "observations", observations)
	}
	GetLogger().Info("catalog saved",
		logger.Int("images", len(images)),
		logger.Int("observations", observations),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}

// firstOrCreate finds the row matching where or inserts it with attrs.
func firstOrCreate[T any](tx *gorm.DB, where, attrs T, dest *T) error {
	err := tx.Where(where).Attrs(attrs).FirstOrCreate(dest).Error
	if err != nil && (errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKey(err)) {
		// lost an insert race with another writer
		err = tx.Where(where).First(dest).Error
	}
	return err
}

// LoadCatalog reads every stored image. Species and locations are resolved through
// registry, so records share pointers with anything else registered there. Images come
// back sorted by date.
func (ds *DataStore) LoadCatalog(ctx context.Context, registry *model.Registry) (images []*model.ImageRecord, err error) {
	start := time.Now()
	defer func() { recordOperation(ds.metrics, metrics.OpLoadCatalog, start, err) }()

	if err := ds.requireDB(); err != nil {
		return nil, err
	}
	db := ds.DB.WithContext(ctx)

	var locRows []LocationRow
	if err := db.Find(&locRows).Error; err != nil {
		return nil, loadError(err, "locations")
	}
	locations := make(map[uint]*model.Location, len(locRows))
	for _, r := range locRows {
		locations[r.ID] = registry.Location(r.Name, r.Latitude, r.Longitude, r.Elevation)
	}

	var spRows []SpeciesRow
	if err := db.Find(&spRows).Error; err != nil {
		return nil, loadError(err, "species")
	}
	species := make(map[uint]*model.Species, len(spRows))
	for _, r := range spRows {
		species[r.ID] = registry.Species(r.Name, r.ScientificName)
	}

	var imgRows []ImageRow
	err = db.Preload("Observations", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Order("date_taken, id").Find(&imgRows).Error
	if err != nil {
		return nil, loadError(err, "images")
	}

	images = make([]*model.ImageRecord, 0, len(imgRows))
	for i := range imgRows {
		img, err := toImageRecord(&imgRows[i], locations, species)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	if ds.metrics != nil {
		ds.metrics.RecordRows(metrics.OpLoadCatalog, "images", len(images))
	}
	GetLogger().Debug("catalog loaded",
		logger.Int("images", len(images)),
		logger.Int("locations", len(locRows)),
		logger.Int("species", len(spRows)),
		logger.Duration("elapsed", time.Since(start)))
	return images, nil
}

func toImageRecord(row *ImageRow, locations map[uint]*model.Location, species map[uint]*model.Species) (*model.ImageRecord, error) {
	img := &model.ImageRecord{
		Path:      row.Path,
		DateTaken: row.DateTaken.In(zoneOf(row.ZoneName, row.ZoneOffset)),
	}

	if row.LocationID != nil {
		loc, ok := locations[*row.LocationID]
		if !ok {
			return nil, danglingReference("location", *row.LocationID, row.ID)
		}
		img.LocationTaken = loc
	}

	img.SpeciesPresent = make([]model.SpeciesObservation, 0, len(row.Observations))
	for _, obs := range row.Observations {
		s, ok := species[obs.SpeciesID]
		if !ok {
			return nil, danglingReference("species", obs.SpeciesID, row.ID)
		}
		img.SpeciesPresent = append(img.SpeciesPresent, model.SpeciesObservation{Species: s, Count: obs.Count})
	}
	return img, nil
}

func zoneOf(name string, offset int) *time.Location {
	if offset == 0 && (name == "" || name == "UTC") {
		return time.UTC
	}
	return time.FixedZone(name, offset)
}

func danglingReference(kind string, id, imageID uint) error {
	return errors.Newf("image %d references missing %s %d", imageID, kind, id).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", metrics.OpLoadCatalog).
		Build()
}

func loadError(err error, table string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", metrics.OpLoadCatalog).
		Context("table", table).
		Build()
}

// ClearCatalog deletes every stored row.
func (ds *DataStore) ClearCatalog(ctx context.Context) error {
	if err := ds.requireDB(); err != nil {
		return err
	}
	err := ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []any{&ObservationRow{}, &ImageRow{}, &SpeciesRow{}, &LocationRow{}} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "clear_catalog").
			Build()
	}
	return nil
}

// Counts returns the number of rows in each catalog table.
func (ds *DataStore) Counts(ctx context.Context) (CatalogCounts, error) {
	var c CatalogCounts
	if err := ds.requireDB(); err != nil {
		return c, err
	}
	db := ds.DB.WithContext(ctx)
	for _, q := range []struct {
		model any
		dest  *int64
	}{
		{&LocationRow{}, &c.Locations},
		{&SpeciesRow{}, &c.Species},
		{&ImageRow{}, &c.Images},
		{&ObservationRow{}, &c.Observations},
	} {
		if err := db.Model(q.model).Count(q.dest).Error; err != nil {
			return CatalogCounts{}, errors.New(err).
				Component("datastore").
				Category(errors.CategoryDatabase).
				Context("operation", "count").
				Build()
		}
	}
	return c, nil
}
