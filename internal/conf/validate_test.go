package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		Analysis: AnalysisSettings{
			EventInterval:    60,
			LunarStepDays:    20,
			LunarWindowDays:  5,
			MinSpeciesImages: 25,
			ChiSquareCutoff:  0.95,
			TopN:             10,
			Timezone:         "UTC",
		},
		Report: ReportSettings{Parallelism: 4},
		Datastore: DatastoreSettings{
			Type:   DatastoreSQLite,
			SQLite: SQLiteSettings{Path: "sparcd.db"},
		},
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*Settings)
		wantErrors int
		contains   string
	}{
		{"valid", func(*Settings) {}, 0, ""},
		{"zero interval is allowed", func(s *Settings) { s.Analysis.EventInterval = 0 }, 0, ""},
		{"negative interval", func(s *Settings) { s.Analysis.EventInterval = -1 }, 1, "event interval"},
		{"zero lunar step", func(s *Settings) { s.Analysis.LunarStepDays = 0 }, 1, "lunar step"},
		{"cutoff of one", func(s *Settings) { s.Analysis.ChiSquareCutoff = 1 }, 1, "chi-square"},
		{"bad timezone", func(s *Settings) { s.Analysis.Timezone = "Not/AZone" }, 1, "timezone"},
		{"zero parallelism", func(s *Settings) { s.Report.Parallelism = 0 }, 1, "parallelism"},
		{"blank section", func(s *Settings) { s.Report.Sections = []string{"summary", " "} }, 1, "section"},
		{"sqlite without path", func(s *Settings) { s.Datastore.SQLite.Path = "" }, 1, "sqlite path"},
		{"unknown datastore", func(s *Settings) { s.Datastore.Type = "bolt" }, 1, "unknown datastore"},
		{"mysql bad port", func(s *Settings) {
			s.Datastore.Type = DatastoreMySQL
			s.Datastore.MySQL = MySQLSettings{Host: "db", Database: "traps", Port: "x"}
		}, 1, "mysql port"},
		{"telemetry without dsn", func(s *Settings) { s.Telemetry.Enabled = true }, 1, "DSN"},
		{"several sections fail", func(s *Settings) {
			s.Analysis.TopN = 0
			s.Report.Parallelism = 0
			s.Datastore.Type = ""
		}, 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validSettings()
			tt.mutate(s)

			err := ValidateSettings(s)
			if tt.wantErrors == 0 {
				require.NoError(t, err)
				return
			}

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Len(t, ve.Errors, tt.wantErrors)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}
