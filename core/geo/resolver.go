// Package geo defines the location resolution capability used by the match
// engine. Resolution is injected so the engine stays testable with a
// deterministic resolver; a failed lookup degrades scoring instead of
// failing the batch.
package geo

import (
	"context"
	"errors"
	"math"
)

// ErrUnresolved is returned when a free-text location cannot be mapped to
// coordinates.
var ErrUnresolved = errors.New("location unresolved")

// LocationKey is a comparable resolved location.
type LocationKey struct {
	Lat float64
	Lon float64
}

// Resolver maps a free-text place name to a LocationKey.
type Resolver interface {
	Resolve(ctx context.Context, location string) (LocationKey, error)
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two locations.
func DistanceKm(a, b LocationKey) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
