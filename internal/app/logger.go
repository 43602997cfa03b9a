package app

import "github.com/Chris-Schnaufer/sparcd-old/internal/logger"

// GetLogger returns the app module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("app")
}
