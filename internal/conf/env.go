// env.go - Environment variable configuration and validation for sparcd
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "SPARCD_DEBUG", validateEnvBool},

		// Analysis
		{"analysis.eventinterval", "SPARCD_EVENT_INTERVAL", validateEnvNonNegativeInt},
		{"analysis.lunarstepdays", "SPARCD_LUNAR_STEP_DAYS", validateEnvPositiveInt},
		{"analysis.lunarwindowdays", "SPARCD_LUNAR_WINDOW_DAYS", validateEnvNonNegativeInt},
		{"analysis.timezone", "SPARCD_TIMEZONE", validateEnvTimezone},

		// Report
		{"report.parallelism", "SPARCD_PARALLELISM", validateEnvPositiveInt},

		// Datastore
		{"datastore.type", "SPARCD_DATASTORE_TYPE", validateEnvDatastoreType},
		{"datastore.sqlite.path", "SPARCD_SQLITE_PATH", nil},
		{"datastore.mysql.username", "SPARCD_MYSQL_USERNAME", nil},
		{"datastore.mysql.password", "SPARCD_MYSQL_PASSWORD", nil},
		{"datastore.mysql.database", "SPARCD_MYSQL_DATABASE", nil},
		{"datastore.mysql.host", "SPARCD_MYSQL_HOST", nil},
		{"datastore.mysql.port", "SPARCD_MYSQL_PORT", validateEnvPort},

		// Telemetry and metrics
		{"telemetry.enabled", "SPARCD_TELEMETRY_ENABLED", validateEnvBool},
		{"telemetry.dsn", "SPARCD_TELEMETRY_DSN", nil},
		{"metrics.file", "SPARCD_METRICS_FILE", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue, ok := os.LookupEnv(binding.EnvVar); ok {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// Environment variable validation functions

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvNonNegativeInt(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func validateEnvTimezone(value string) error {
	switch value {
	case "Local", "UTC":
		return nil
	}
	if _, err := time.LoadLocation(value); err != nil {
		return fmt.Errorf("unknown timezone: %w", err)
	}
	return nil
}

func validateEnvDatastoreType(value string) error {
	switch value {
	case DatastoreSQLite, DatastoreMySQL:
		return nil
	}
	return fmt.Errorf("datastore type must be %q or %q", DatastoreSQLite, DatastoreMySQL)
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars()
}
