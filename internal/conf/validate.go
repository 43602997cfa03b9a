// conf/validate.go

package conf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateAnalysisSettings(&settings.Analysis); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateReportSettings(&settings.Report); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateDatastoreSettings(&settings.Datastore); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.Telemetry.Enabled && settings.Telemetry.DSN == "" {
		ve.Errors = append(ve.Errors, "telemetry is enabled but no DSN is set")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateAnalysisSettings validates the statistic parameters
func validateAnalysisSettings(settings *AnalysisSettings) error {
	var errs []string

	if settings.EventInterval < 0 {
		errs = append(errs, "event interval must not be negative")
	}
	if settings.LunarStepDays < 1 {
		errs = append(errs, "lunar step must be at least one day")
	}
	if settings.LunarWindowDays < 0 {
		errs = append(errs, "lunar window must not be negative")
	}
	if settings.MinSpeciesImages < 0 {
		errs = append(errs, "minimum species images must not be negative")
	}
	if settings.ChiSquareCutoff <= 0 || settings.ChiSquareCutoff >= 1 {
		errs = append(errs, "chi-square cutoff must be between 0 and 1 exclusive")
	}
	if settings.TopN < 1 {
		errs = append(errs, "top N must be at least 1")
	}
	if _, err := settings.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone %q", settings.Timezone))
	}

	if len(errs) > 0 {
		return fmt.Errorf("analysis settings errors: %v", errs)
	}
	return nil
}

// validateReportSettings validates report scheduling
func validateReportSettings(settings *ReportSettings) error {
	if settings.Parallelism < 1 {
		return errors.New("report parallelism must be at least 1")
	}
	for _, name := range settings.Sections {
		if strings.TrimSpace(name) == "" {
			return errors.New("report section names must not be empty")
		}
	}
	return nil
}

// validateDatastoreSettings validates the persistence backend
func validateDatastoreSettings(settings *DatastoreSettings) error {
	var errs []string

	switch settings.Type {
	case DatastoreSQLite:
		if settings.SQLite.Path == "" {
			errs = append(errs, "sqlite path is required")
		}
	case DatastoreMySQL:
		if settings.MySQL.Host == "" {
			errs = append(errs, "mysql host is required")
		}
		if settings.MySQL.Database == "" {
			errs = append(errs, "mysql database is required")
		}
		if port, err := strconv.Atoi(settings.MySQL.Port); err != nil || port < 1 || port > 65535 {
			errs = append(errs, fmt.Sprintf("invalid mysql port %q", settings.MySQL.Port))
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown datastore type %q", settings.Type))
	}

	if len(errs) > 0 {
		return fmt.Errorf("datastore settings errors: %v", errs)
	}
	return nil
}
