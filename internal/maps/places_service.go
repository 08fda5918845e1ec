package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"fuelroute/internal/types"
)

// GasStation represents a simplified nearby-search result.
type GasStation struct {
	Name     string
	Vicinity string
	Location types.Point
}

// PlacesService handles interactions with the Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// NearbyGasStations searches for gas stations around the given point.
// An empty result set is a value, not an error.
func (s *PlacesService) NearbyGasStations(ctx context.Context, at types.Point, radiusMeters uint) ([]GasStation, error) {
	r := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: at.Lat, Lng: at.Lng},
		Radius:   radiusMeters,
		Type:     maps.PlaceTypeGasStation,
	}

	resp, err := doWithRetry(ctx, func() (maps.PlacesSearchResponse, error) {
		return s.client.NearbySearch(ctx, r)
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	stations := make([]GasStation, 0, len(resp.Results))
	for _, result := range resp.Results {
		stations = append(stations, GasStation{
			Name:     result.Name,
			Vicinity: result.Vicinity,
			Location: types.Point{
				Lat: result.Geometry.Location.Lat,
				Lng: result.Geometry.Location.Lng,
			},
		})
	}
	return stations, nil
}
