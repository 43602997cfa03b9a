// Package metrics defines the Prometheus collectors for report generation, sun event
// calculation and catalog persistence.
package metrics

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Operation label values.
const (
	OpSaveCatalog = "save_catalog"
	OpLoadCatalog = "load_catalog"
	OpMigrate     = "migrate"
	OpSunEvents   = "sun_events"
	OpClassify    = "classify"
)

// Histogram bucket configuration.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketStart10ms is the starting bucket for 10ms histograms (10ms to ~40s range).
	BucketStart10ms = 0.01

	BucketFactor2 = 2

	BucketCount10 = 10
	BucketCount12 = 12
)
