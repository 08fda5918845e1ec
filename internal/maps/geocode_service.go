package maps

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"googlemaps.github.io/maps"

	"fuelroute/internal/types"
)

// GeocodeService handles forward and reverse geocoding via the Google
// Geocoding API. Reverse lookups are memoized in-process because the
// visited-states strategy issues one per found station and neighbouring
// points usually resolve to the same state.
type GeocodeService struct {
	client *maps.Client
	states *gocache.Cache
}

// NewGeocodeService creates a new GeocodeService with the given API key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{
		client: client,
		states: gocache.New(6*time.Hour, 10*time.Minute),
	}, nil
}

// Geocode resolves a free-form address to coordinates. The second return is
// false when the API returns no results (a miss, not an error).
func (s *GeocodeService) Geocode(ctx context.Context, address string) (types.Point, bool, error) {
	results, err := doWithRetry(ctx, func() ([]maps.GeocodingResult, error) {
		return s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	})
	if err != nil {
		return types.Point{}, false, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return types.Point{}, false, nil
	}

	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, true, nil
}

// ReverseState resolves coordinates to a 2-letter state code, or "" when the
// API returns nothing usable.
func (s *GeocodeService) ReverseState(ctx context.Context, p types.Point) (string, error) {
	// Round to ~100m so nearby samples share a cache entry.
	key := fmt.Sprintf("%.3f,%.3f", p.Lat, p.Lng)
	if v, ok := s.states.Get(key); ok {
		return v.(string), nil
	}

	results, err := doWithRetry(ctx, func() ([]maps.GeocodingResult, error) {
		return s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
			LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		})
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", key, err)
	}

	state := ""
	for _, res := range results {
		for _, comp := range res.AddressComponents {
			for _, t := range comp.Types {
				if t == "administrative_area_level_1" {
					state = comp.ShortName
					break
				}
			}
			if state != "" {
				break
			}
		}
		if state != "" {
			break
		}
	}

	s.states.Set(key, state, gocache.DefaultExpiration)
	return state, nil
}
