// Package geo measures great-circle distances between camera locations.
package geo

import (
	"math"

	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance in kilometres between two points given in
// decimal degrees.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// rounding can push a fractionally past 1 for antipodal points
	a = math.Min(1, a)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Between returns the distance in kilometres between two locations.
func Between(a, b *model.Location) float64 {
	return DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// Pair is the distance between two distinct locations.
type Pair struct {
	A, B *model.Location
	Km   float64
}

// Pairs returns the distance for every unordered pair of locations, in input order
// (locations[0] with locations[1], locations[0] with locations[2], ...).
func Pairs(locations []*model.Location) []Pair {
	if len(locations) < 2 {
		return nil
	}
	out := make([]Pair, 0, len(locations)*(len(locations)-1)/2)
	for i := 0; i < len(locations); i++ {
		for j := i + 1; j < len(locations); j++ {
			out = append(out, Pair{A: locations[i], B: locations[j], Km: Between(locations[i], locations[j])})
		}
	}
	return out
}
