package geo

import (
	"context"
	"strings"
)

// StaticResolver resolves locations from a fixed city table. It is the
// default resolver and the deterministic fake used in engine tests.
type StaticResolver struct {
	cities map[string]LocationKey
}

// NewStaticResolver returns a resolver seeded with major US freight
// markets. Extra entries override or extend the built-in table.
func NewStaticResolver(extra map[string]LocationKey) *StaticResolver {
	cities := map[string]LocationKey{
		"dallas tx":         {32.7767, -96.7970},
		"fort worth tx":     {32.7555, -97.3308},
		"atlanta ga":        {33.7490, -84.3880},
		"chicago il":        {41.8781, -87.6298},
		"denver co":         {39.7392, -104.9903},
		"las vegas nv":      {36.1699, -115.1398},
		"memphis tn":        {35.1495, -90.0490},
		"miami fl":          {25.7617, -80.1918},
		"houston tx":        {29.7604, -95.3698},
		"phoenix az":        {33.4484, -112.0740},
		"seattle wa":        {47.6062, -122.3321},
		"los angeles ca":    {34.0522, -118.2437},
		"new york ny":       {40.7128, -74.0060},
		"kansas city mo":    {39.0997, -94.5786},
		"oklahoma city ok":  {35.4676, -97.5164},
		"nashville tn":      {36.1627, -86.7816},
		"salt lake city ut": {40.7608, -111.8910},
		"portland or":       {45.5152, -122.6784},
		"charlotte nc":      {35.2271, -80.8431},
		"columbus oh":       {39.9612, -82.9988},
	}
	for k, v := range extra {
		cities[Normalize(k)] = v
	}
	return &StaticResolver{cities: cities}
}

// Resolve looks up the normalized location. It returns ErrUnresolved for
// unknown places; callers treat that as "distance unknown".
func (r *StaticResolver) Resolve(_ context.Context, location string) (LocationKey, error) {
	key := Normalize(location)
	if loc, ok := r.cities[key]; ok {
		return loc, nil
	}
	// Retry without a trailing state token so "Dallas" still resolves.
	if loc, ok := r.cities[key+" tx"]; ok {
		return loc, nil
	}
	for city, loc := range r.cities {
		if strings.HasPrefix(city, key+" ") {
			return loc, nil
		}
	}
	return LocationKey{}, ErrUnresolved
}

// Normalize lowercases a place name and strips punctuation so lookups are
// insensitive to "Dallas, TX" vs "dallas tx".
func Normalize(location string) string {
	s := strings.ToLower(strings.TrimSpace(location))
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}
