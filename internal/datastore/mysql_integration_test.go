package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/Chris-Schnaufer/sparcd-old/internal/conf"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

func TestMySQLRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping MySQL container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := t.Context()

	ctr, err := tcmysql.Run(ctx, "mysql:8.0.36",
		tcmysql.WithDatabase("sparcd"),
		tcmysql.WithUsername("sparcd"),
		tcmysql.WithPassword("sparcd"),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	store := &MySQLStore{Settings: conf.MySQLSettings{
		Username: "sparcd",
		Password: "sparcd",
		Database: "sparcd",
		Host:     host,
		Port:     port.Port(),
	}}
	require.NoError(t, store.Open(ctx))
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SaveCatalog(ctx, sampleCatalog(model.NewRegistry())))
	require.NoError(t, store.SaveCatalog(ctx, sampleCatalog(model.NewRegistry())))

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, CatalogCounts{Locations: 2, Species: 2, Images: 6, Observations: 6}, counts)

	loaded, err := store.LoadCatalog(ctx, model.NewRegistry())
	require.NoError(t, err)
	require.Len(t, loaded, 6)
	assert.Equal(t, 6, loaded[0].DateTaken.Hour())
}
