package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want, delta            float64
	}{
		{"same point", 32.2, -110.9, 32.2, -110.9, 0, 1e-9},
		{"one degree of latitude", 0, 0, 1, 0, 111.195, 0.01},
		{"one degree of longitude at equator", 0, 0, 0, 1, 111.195, 0.01},
		{"quarter meridian", 0, 0, 90, 0, 10007.543, 0.01},
		{"antipodes", 0, 0, 0, 180, 20015.087, 0.01},
		{"tucson to phoenix", 32.2217, -110.9265, 33.4484, -112.0740, 173.0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, DistanceKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2), tt.delta)
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	t.Parallel()

	ab := DistanceKm(31.9, -110.2, 32.4, -111.0)
	ba := DistanceKm(32.4, -111.0, 31.9, -110.2)
	assert.InDelta(t, ab, ba, 1e-9)
	assert.Positive(t, ab)
}

func TestPairs(t *testing.T) {
	t.Parallel()

	a := &model.Location{Name: "A", Latitude: 0, Longitude: 0}
	b := &model.Location{Name: "B", Latitude: 0, Longitude: 1}
	c := &model.Location{Name: "C", Latitude: 1, Longitude: 0}

	pairs := Pairs([]*model.Location{a, b, c})
	require.Len(t, pairs, 3)
	assert.Same(t, a, pairs[0].A)
	assert.Same(t, b, pairs[0].B)
	assert.Same(t, b, pairs[2].A)
	assert.Same(t, c, pairs[2].B)
	assert.InDelta(t, 111.195, pairs[0].Km, 0.01)

	assert.Nil(t, Pairs([]*model.Location{a}))
}
