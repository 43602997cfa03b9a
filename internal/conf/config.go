// Package conf provides configuration management for sparcd.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// Datastore backends.
const (
	DatastoreSQLite = "sqlite"
	DatastoreMySQL  = "mysql"
)

// Settings contains all configuration options for sparcd.
type Settings struct {
	Debug bool `yaml:"debug"` // true to enable debug logging

	Analysis  AnalysisSettings     `yaml:"analysis"`
	Report    ReportSettings       `yaml:"report"`
	Datastore DatastoreSettings    `yaml:"datastore"`
	Logging   logger.LoggingConfig `yaml:"logging"`
	Telemetry TelemetrySettings    `yaml:"telemetry"`
	Metrics   MetricsSettings      `yaml:"metrics"`
}

// AnalysisSettings controls how statistics are computed.
type AnalysisSettings struct {
	EventInterval    int     `yaml:"eventinterval"`    // independence window in minutes
	LunarStepDays    int     `yaml:"lunarstepdays"`    // days to skip after a found lunar event
	LunarWindowDays  int     `yaml:"lunarwindowdays"`  // +/- days around a moon counted as lunar activity
	MinSpeciesImages int     `yaml:"minspeciesimages"` // species with fewer images are left out of pair sections
	ChiSquareCutoff  float64 `yaml:"chisquarecutoff"`  // significance level for the chi-square section
	TopN             int     `yaml:"topn"`             // pairs listed in location similarity sections
	Timezone         string  `yaml:"timezone"`         // "Local", "UTC" or an IANA zone for diel classification
}

// ReportSettings selects and schedules report sections.
type ReportSettings struct {
	Sections    []string `yaml:"sections"`    // empty means every section
	Parallelism int      `yaml:"parallelism"` // concurrent section workers
}

// DatastoreSettings selects the catalog persistence backend.
type DatastoreSettings struct {
	Type   string         `yaml:"type"` // sqlite or mysql
	SQLite SQLiteSettings `yaml:"sqlite"`
	MySQL  MySQLSettings  `yaml:"mysql"`
}

// SQLiteSettings configures the sqlite backend.
type SQLiteSettings struct {
	Path string `yaml:"path"` // path to sqlite database
}

// MySQLSettings configures the mysql backend.
type MySQLSettings struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

// TelemetrySettings controls error reporting to Sentry.
type TelemetrySettings struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// MetricsSettings controls the prometheus textfile dump.
type MetricsSettings struct {
	File string `yaml:"file"` // empty disables the dump
}

// Location resolves the analysis timezone.
func (a AnalysisSettings) Location() (*time.Location, error) {
	switch a.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("timezone", a.Timezone).
			Build()
	}
	return loc, nil
}

// LunarStep returns LunarStepDays as a duration.
func (a AnalysisSettings) LunarStep() time.Duration {
	return time.Duration(a.LunarStepDays) * 24 * time.Hour
}

// LunarWindow returns LunarWindowDays as a duration.
func (a AnalysisSettings) LunarWindow() time.Duration {
	return time.Duration(a.LunarWindowDays) * 24 * time.Hour
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings. An empty
// configFile searches the default config paths and writes the embedded defaults to the
// first of them when no config file exists yet.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	GetLogger().Debug("settings loaded",
		logger.String("config_file", viper.ConfigFileUsed()),
		logger.Int("event_interval", settings.Analysis.EventInterval),
		logger.String("datastore", settings.Datastore.Type))

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper(configFile string) error {
	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		// bad env values are reported but the file and defaults still load
		GetLogger().Warn("environment variable validation failed", logger.Error(err))
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				FileContext(configFile).
				Build()
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config into dir and reads it back.
func createDefaultConfig(dir string) error {
	configPath := filepath.Join(dir, "config.yaml")

	defaultConfig, err := getDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "create-config-dir").
			FileContext(configPath).
			Build()
	}
	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "write-default-config").
			FileContext(configPath).
			Build()
	}

	GetLogger().Info("created default config file", logger.String("path", configPath))
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() ([]byte, error) {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "read-embedded-config").
			Build()
	}
	return data, nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveYAMLConfig writes settings to configPath. The file is written to a temporary file
// in the same directory first and renamed over the original.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "replace-config").
			FileContext(configPath).
			Build()
	}
	return nil
}
