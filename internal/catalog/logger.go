package catalog

import "github.com/Chris-Schnaufer/sparcd-old/internal/logger"

// GetLogger returns the catalog module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("catalog")
}
