package maps

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"googlemaps.github.io/maps"

	"fuelroute/internal/types"
)

const metersPerMile = 1609.34

// ErrNoRoute is returned when the directions API yields no usable route.
var ErrNoRoute = errors.New("no route found")

// RouteService handles interactions with the Google Directions and Elevation APIs.
type RouteService struct {
	client  *maps.Client
	samples int
}

// NewRouteService creates a new RouteService with the given API key. samples
// controls how many points are sampled along the overview polyline.
func NewRouteService(apiKey string, samples int) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, samples: samples}, nil
}

// Route is the subset of a computed driving route the planner consumes.
type Route struct {
	DistanceMiles float64
	Points        []types.Point
}

// Route fetches a driving route from origin to destination and samples points
// along its overview polyline. It assumes driving mode, departing now.
func (s *RouteService) Route(ctx context.Context, origin, destination string) (Route, error) {
	r := &maps.DirectionsRequest{
		Origin:        origin,
		Destination:   destination,
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now",
	}

	routes, err := doWithRetry(ctx, func() ([]maps.Route, error) {
		routes, _, err := s.client.Directions(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("maps api error: %w", err)
		}
		return routes, nil
	})
	if err != nil {
		return Route{}, err
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	var meters int
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
	}

	points, err := s.samplePath(ctx, routes[0].OverviewPolyline.Points)
	if err != nil {
		return Route{}, err
	}

	return Route{
		DistanceMiles: float64(meters) / metersPerMile,
		Points:        points,
	}, nil
}

// samplePath asks the Elevation API for evenly spaced samples along the
// encoded polyline; only the sample locations are kept.
func (s *RouteService) samplePath(ctx context.Context, encoded string) ([]types.Point, error) {
	path, err := maps.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode overview polyline: %w", err)
	}
	if len(path) == 0 {
		return nil, ErrNoRoute
	}

	results, err := doWithRetry(ctx, func() ([]maps.ElevationResult, error) {
		return s.client.Elevation(ctx, &maps.ElevationRequest{
			Path:    path,
			Samples: s.samples,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("elevation api error: %w", err)
	}

	points := make([]types.Point, 0, len(results))
	for _, res := range results {
		if res.Location == nil {
			continue
		}
		points = append(points, types.Point{Lat: res.Location.Lat, Lng: res.Location.Lng})
	}
	return points, nil
}

// MapLink builds a shareable Google Maps directions URL for the trip.
func MapLink(origin, destination string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", origin)
	q.Set("destination", destination)
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
