package datastore

import (
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
)

// DefaultSlowQueryThreshold is the duration after which a query is logged as slow.
const DefaultSlowQueryThreshold = 1 * time.Second

// GetLogger returns the datastore module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("datastore")
}

// createGormLogger routes gorm logging through the datastore module logger.
func createGormLogger() *logger.GormLoggerAdapter {
	return logger.NewGormLoggerAdapter(GetLogger(), DefaultSlowQueryThreshold)
}
