package analysis

import "github.com/Chris-Schnaufer/sparcd-old/internal/logger"

// GetLogger returns the analysis module logger. It is fetched from the global logger on
// each call so it follows whatever CentralLogger main installs.
func GetLogger() logger.Logger {
	return logger.Global().Module("analysis")
}
