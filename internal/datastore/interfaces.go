// Package datastore persists image catalogs with gorm on sqlite or mysql.
package datastore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Chris-Schnaufer/sparcd-old/internal/conf"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

// Interface abstracts the catalog store.
type Interface interface {
	Open(ctx context.Context) error
	SaveCatalog(ctx context.Context, images []*model.ImageRecord) error
	LoadCatalog(ctx context.Context, registry *model.Registry) ([]*model.ImageRecord, error)
	ClearCatalog(ctx context.Context) error
	Counts(ctx context.Context) (CatalogCounts, error)
	SetMetrics(m *metrics.DatastoreMetrics)
	Close() error
}

// DataStore implements the catalog operations shared by every backend.
type DataStore struct {
	DB      *gorm.DB
	Debug   bool
	metrics *metrics.DatastoreMetrics
}

// SetMetrics makes the store record operation metrics.
func (ds *DataStore) SetMetrics(m *metrics.DatastoreMetrics) {
	ds.metrics = m
}

// New creates a store for the configured backend. The store is not opened.
func New(settings *conf.Settings) (Interface, error) {
	switch settings.Datastore.Type {
	case conf.DatastoreSQLite:
		return &SQLiteStore{Path: settings.Datastore.SQLite.Path, DataStore: DataStore{Debug: settings.Debug}}, nil
	case conf.DatastoreMySQL:
		return &MySQLStore{Settings: settings.Datastore.MySQL, DataStore: DataStore{Debug: settings.Debug}}, nil
	default:
		return nil, errors.Newf("unknown datastore type %q", settings.Datastore.Type).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// performAutoMigration creates or updates the catalog tables.
func performAutoMigration(ctx context.Context, db *gorm.DB, dbType string, m *metrics.DatastoreMetrics) error {
	start := time.Now()
	log := GetLogger().With(logger.String("db_type", dbType))

	err := db.WithContext(ctx).AutoMigrate(&LocationRow{}, &SpeciesRow{}, &ImageRow{}, &ObservationRow{})
	recordOperation(m, metrics.OpMigrate, start, err)
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "auto_migrate").
			Context("db_type", dbType).
			Timing("auto_migrate", time.Since(start)).
			Build()
	}

	log.Debug("database migration completed", logger.Duration("elapsed", time.Since(start)))
	return nil
}

func recordOperation(m *metrics.DatastoreMetrics, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		m.RecordOperationError(op, err)
	}
	m.RecordOperation(op, status, time.Since(start).Seconds())
}

// closeDB closes the connection pool behind db.
func closeDB(db *gorm.DB) error {
	if db == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_sql_db").
			Build()
	}
	return sqlDB.Close()
}
