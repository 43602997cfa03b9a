package conf

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvValidators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		validate func(string) error
		value    string
		wantErr  bool
	}{
		{"bool true", validateEnvBool, "true", false},
		{"bool with spaces", validateEnvBool, " 0 ", false},
		{"bool yes", validateEnvBool, "yes", true},
		{"non-negative zero", validateEnvNonNegativeInt, "0", false},
		{"non-negative negative", validateEnvNonNegativeInt, "-5", true},
		{"non-negative decimal", validateEnvNonNegativeInt, "1.5", true},
		{"positive one", validateEnvPositiveInt, "1", false},
		{"positive zero", validateEnvPositiveInt, "0", true},
		{"timezone local", validateEnvTimezone, "Local", false},
		{"timezone utc", validateEnvTimezone, "UTC", false},
		{"timezone unknown", validateEnvTimezone, "Nowhere/Special", true},
		{"datastore sqlite", validateEnvDatastoreType, "sqlite", false},
		{"datastore mysql", validateEnvDatastoreType, "mysql", false},
		{"datastore postgres", validateEnvDatastoreType, "postgres", true},
		{"port valid", validateEnvPort, "3306", false},
		{"port zero", validateEnvPort, "0", true},
		{"port too large", validateEnvPort, "70000", true},
		{"port text", validateEnvPort, "mysql", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigureEnvironmentVariables(t *testing.T) {
	t.Run("invalid values are collected", func(t *testing.T) {
		resetViper(t)
		t.Setenv("SPARCD_DEBUG", "maybe")
		t.Setenv("SPARCD_PARALLELISM", "0")

		err := configureEnvironmentVariables()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SPARCD_DEBUG")
		assert.Contains(t, err.Error(), "SPARCD_PARALLELISM")
	})

	t.Run("empty but present values are validated", func(t *testing.T) {
		resetViper(t)
		t.Setenv("SPARCD_EVENT_INTERVAL", "")

		err := configureEnvironmentVariables()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SPARCD_EVENT_INTERVAL")
	})

	t.Run("valid values bind", func(t *testing.T) {
		resetViper(t)
		t.Setenv("SPARCD_DEBUG", "true")
		t.Setenv("SPARCD_TIMEZONE", "UTC")
		t.Setenv("SPARCD_MYSQL_HOST", "db.internal")

		require.NoError(t, configureEnvironmentVariables())
		assert.True(t, viper.GetBool("debug"))
		assert.Equal(t, "UTC", viper.GetString("analysis.timezone"))
		assert.Equal(t, "db.internal", viper.GetString("datastore.mysql.host"))
	})
}

func TestEnvBindingsCoverKnownKeys(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, b := range getEnvBindings() {
		assert.False(t, seen[b.EnvVar], "duplicate binding %s", b.EnvVar)
		seen[b.EnvVar] = true
		assert.Regexp(t, `^SPARCD_[A-Z_]+$`, b.EnvVar)
	}
}
