package report

import "github.com/Chris-Schnaufer/sparcd-old/internal/logger"

// GetLogger returns the report module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("report")
}
