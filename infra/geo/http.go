// Package geo provides a geocoding-service backed location resolver with
// an in-memory cache. Lookups that fail or time out surface as
// geo.ErrUnresolved so the match engine degrades instead of aborting.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	coregeo "github.com/loadpulse/loadpulse/core/geo"
	"github.com/loadpulse/loadpulse/infra/logger"
)

// HTTPResolver resolves place names against a Pelias-compatible geocoding
// endpoint (e.g. OpenRouteService /geocode/search).
type HTTPResolver struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     logger.Logger

	mu    sync.RWMutex
	cache map[string]coregeo.LocationKey
}

// NewHTTPResolver creates a resolver for the given endpoint. The timeout
// bounds each request.
func NewHTTPResolver(baseURL, apiKey string, timeout time.Duration) *HTTPResolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPResolver{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     logger.New("geo-resolver"),
		cache:   make(map[string]coregeo.LocationKey),
	}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Resolve looks the place up, serving repeated queries from the cache.
func (r *HTTPResolver) Resolve(ctx context.Context, location string) (coregeo.LocationKey, error) {
	key := coregeo.Normalize(location)
	r.mu.RLock()
	loc, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := r.fetch(ctx, location)
	if err != nil {
		r.log.Debugf("geocode %q: %v", location, err)
		return coregeo.LocationKey{}, coregeo.ErrUnresolved
	}

	r.mu.Lock()
	r.cache[key] = loc
	r.mu.Unlock()
	return loc, nil
}

func (r *HTTPResolver) fetch(ctx context.Context, location string) (coregeo.LocationKey, error) {
	endpoint := r.baseURL + "/geocode/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return coregeo.LocationKey{}, err
	}
	q := url.Values{}
	q.Set("text", location)
	q.Set("size", "1")
	if r.apiKey != "" {
		q.Set("api_key", r.apiKey)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := r.client.Do(req)
	if err != nil {
		return coregeo.LocationKey{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return coregeo.LocationKey{}, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return coregeo.LocationKey{}, err
	}
	if len(body.Features) == 0 || len(body.Features[0].Geometry.Coordinates) < 2 {
		return coregeo.LocationKey{}, fmt.Errorf("no geocode result")
	}
	coords := body.Features[0].Geometry.Coordinates
	// GeoJSON order is [lon, lat].
	return coregeo.LocationKey{Lat: coords[1], Lon: coords[0]}, nil
}
