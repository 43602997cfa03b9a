package datastore

import (
	"context"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
)

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Path string
}

// Open creates the database file and its directory when missing, then migrates the
// catalog tables.
func (store *SQLiteStore) Open(ctx context.Context) error {
	if store.Path == "" {
		return errors.Newf("sqlite path is empty").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	absoluteFilePath, err := filepath.Abs(os.ExpandEnv(store.Path))
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryFileIO).
			FileContext(store.Path).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(absoluteFilePath), 0o750); err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryFileIO).
			Context("operation", "create_db_dir").
			FileContext(absoluteFilePath).
			Build()
	}

	// foreign keys are off by default in sqlite; cascading deletes need them
	dsn := absoluteFilePath + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: createGormLogger()})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "open").
			Context("db_type", "sqlite").
			FileContext(absoluteFilePath).
			Build()
	}

	store.DB = db
	if store.Debug {
		GetLogger().Debug("sqlite database opened", logger.String("path", absoluteFilePath))
	}
	return performAutoMigration(ctx, db, "sqlite", store.metrics)
}

// Close closes the SQLite connection pool.
func (store *SQLiteStore) Close() error {
	return closeDB(store.DB)
}
