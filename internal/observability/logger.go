package observability

import "github.com/Chris-Schnaufer/sparcd-old/internal/logger"

// GetLogger returns the observability module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("observability")
}
