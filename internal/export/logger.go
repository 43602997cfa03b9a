package export

import "github.com/Chris-Schnaufer/sparcd-old/internal/logger"

// GetLogger returns the export module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("export")
}
