package datastore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Chris-Schnaufer/sparcd-old/internal/conf"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

var mst = time.FixedZone("MST", -7*60*60)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := &SQLiteStore{Path: filepath.Join(t.TempDir(), "nested", "catalog.db")}
	require.NoError(t, store.Open(t.Context()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleCatalog(reg *model.Registry) []*model.ImageRecord {
	ridge := reg.Location("Ridge", 32.25, -110.85, 1200)
	wash := reg.Location("Wash", 32.10, -110.70, 900)
	coyote := reg.Species("Coyote", "Canis latrans")
	deer := reg.Species("Mule Deer", "Odocoileus hemionus")

	return []*model.ImageRecord{
		{
			Path:          "ridge/0001.jpg",
			DateTaken:     time.Date(2019, 3, 4, 23, 15, 0, 0, mst),
			LocationTaken: ridge,
			SpeciesPresent: []model.SpeciesObservation{
				{Species: deer, Count: 2},
				{Species: coyote, Count: 1},
			},
		},
		{
			Path:           "wash/0001.jpg",
			DateTaken:      time.Date(2019, 3, 1, 6, 0, 0, 0, mst),
			LocationTaken:  wash,
			SpeciesPresent: []model.SpeciesObservation{{Species: coyote, Count: 3}},
		},
		{
			Path:           "loose/0001.jpg",
			DateTaken:      time.Date(2019, 3, 2, 12, 0, 0, 0, time.UTC),
			SpeciesPresent: []model.SpeciesObservation{},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := t.Context()

	saved := sampleCatalog(model.NewRegistry())
	require.NoError(t, store.SaveCatalog(ctx, saved))

	reg := model.NewRegistry()
	coyote := reg.Species("Coyote", "")
	loaded, err := store.LoadCatalog(ctx, reg)
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	// sorted by date
	assert.Equal(t, "wash/0001.jpg", loaded[0].Path)
	assert.Equal(t, "loose/0001.jpg", loaded[1].Path)
	assert.Equal(t, "ridge/0001.jpg", loaded[2].Path)

	ridgeImg := loaded[2]
	assert.True(t, ridgeImg.DateTaken.Equal(saved[0].DateTaken))
	assert.Equal(t, 23, ridgeImg.DateTaken.Hour(), "wall clock survives")
	_, offset := ridgeImg.DateTaken.Zone()
	assert.Equal(t, -7*60*60, offset)

	require.Len(t, ridgeImg.SpeciesPresent, 2)
	assert.Equal(t, "Mule Deer", ridgeImg.SpeciesPresent[0].Species.Name, "tag order kept")
	assert.Equal(t, 2, ridgeImg.SpeciesPresent[0].Count)
	assert.Same(t, coyote, ridgeImg.SpeciesPresent[1].Species, "pre-registered species reused")
	assert.Same(t, coyote, loaded[0].SpeciesPresent[0].Species)

	ridge, ok := reg.LookupLocation("Ridge")
	require.True(t, ok)
	assert.Same(t, ridge, ridgeImg.LocationTaken)
	assert.InDelta(t, 32.25, ridge.Latitude, 1e-9)
	assert.InDelta(t, 1200, ridge.Elevation, 1e-9)

	assert.Nil(t, loaded[1].LocationTaken)
	assert.Empty(t, loaded[1].SpeciesPresent)
	assert.Equal(t, time.UTC, loaded[1].DateTaken.Location())
}

func TestSaveCatalogReusesRows(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.SaveCatalog(ctx, sampleCatalog(model.NewRegistry())))
	// a second import from a separate registry matches locations and species by name
	require.NoError(t, store.SaveCatalog(ctx, sampleCatalog(model.NewRegistry())))

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, CatalogCounts{Locations: 2, Species: 2, Images: 6, Observations: 6}, counts)
}

func TestSaveCatalogEmpty(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)

	require.NoError(t, store.SaveCatalog(t.Context(), nil))
	loaded, err := store.LoadCatalog(t.Context(), model.NewRegistry())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestClearCatalog(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.SaveCatalog(ctx, sampleCatalog(model.NewRegistry())))
	require.NoError(t, store.ClearCatalog(ctx))

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, CatalogCounts{}, counts)
}

func TestReopenKeepsData(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := t.Context()

	first := &SQLiteStore{Path: path}
	require.NoError(t, first.Open(ctx))
	require.NoError(t, first.SaveCatalog(ctx, sampleCatalog(model.NewRegistry())))
	require.NoError(t, first.Close())

	second := &SQLiteStore{Path: path}
	require.NoError(t, second.Open(ctx))
	t.Cleanup(func() { _ = second.Close() })

	loaded, err := second.LoadCatalog(ctx, model.NewRegistry())
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := store.SaveCatalog(ctx, sampleCatalog(model.NewRegistry()))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDatabase))
}

func TestUnopenedStore(t *testing.T) {
	t.Parallel()
	store := &SQLiteStore{Path: "unused.db"}

	_, err := store.LoadCatalog(t.Context(), model.NewRegistry())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDatabase))
	assert.Error(t, store.Close())
}

func TestOpenEmptyPath(t *testing.T) {
	t.Parallel()
	err := (&SQLiteStore{}).Open(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestMetricsRecorded(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	m, err := metrics.NewDatastoreMetrics(registry)
	require.NoError(t, err)

	store := &SQLiteStore{Path: filepath.Join(t.TempDir(), "catalog.db")}
	store.SetMetrics(m)
	require.NoError(t, store.Open(t.Context()))
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SaveCatalog(t.Context(), sampleCatalog(model.NewRegistry())))
	_, err = store.LoadCatalog(t.Context(), model.NewRegistry())
	require.NoError(t, err)

	expected := `
# HELP sparcd_datastore_rows_total Rows written or read per table
# TYPE sparcd_datastore_rows_total counter
sparcd_datastore_rows_total{operation="load_catalog",table="images"} 3
sparcd_datastore_rows_total{operation="save_catalog",table="images"} 3
sparcd_datastore_rows_total{operation="save_catalog",table="observations"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "sparcd_datastore_rows_total"))
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings conf.Settings
		want     any
		wantErr  bool
	}{
		{
			name:     "sqlite",
			settings: conf.Settings{Datastore: conf.DatastoreSettings{Type: conf.DatastoreSQLite, SQLite: conf.SQLiteSettings{Path: "x.db"}}},
			want:     &SQLiteStore{},
		},
		{
			name:     "mysql",
			settings: conf.Settings{Datastore: conf.DatastoreSettings{Type: conf.DatastoreMySQL}},
			want:     &MySQLStore{},
		},
		{
			name:     "unknown",
			settings: conf.Settings{Datastore: conf.DatastoreSettings{Type: "bolt"}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, err := New(&tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	t.Parallel()
	store := &MySQLStore{Settings: conf.MySQLSettings{
		Username: "trap",
		Password: "p@ss:word/1",
		Host:     "db.example",
		Port:     "3307",
		Database: "sparcd",
	}}

	cfg, err := mysql.ParseDSN(store.dsn())
	require.NoError(t, err)
	assert.Equal(t, "trap", cfg.User)
	assert.Equal(t, "p@ss:word/1", cfg.Passwd)
	assert.Equal(t, "db.example:3307", cfg.Addr)
	assert.Equal(t, "sparcd", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}

func TestMySQLDSNRedacted(t *testing.T) {
	t.Parallel()
	store := &MySQLStore{Settings: conf.MySQLSettings{
		Username: "trap", Password: "hunter2", Host: "db.example", Port: "3306", Database: "sparcd",
	}}

	redacted := logger.RedactSensitiveData(store.dsn())
	assert.NotContains(t, redacted, "hunter2")
	assert.Contains(t, redacted, "trap:[REDACTED]@tcp(db.example:3306)")
}

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()
	assert.True(t, isDuplicateKey(&mysql.MySQLError{Number: mysqlDuplicateEntry}))
	assert.True(t, isDuplicateKey(errors.Join(assert.AnError, &mysql.MySQLError{Number: mysqlDuplicateEntry})))
	assert.False(t, isDuplicateKey(&mysql.MySQLError{Number: 1045}))
	assert.False(t, isDuplicateKey(gorm.ErrRecordNotFound))
}
