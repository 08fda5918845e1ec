// README: Planner service orchestrates route fetch, filtering, selection and costing.
package planner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"fuelroute/internal/config"
	mapsvc "fuelroute/internal/maps"
	"fuelroute/internal/modules/fuel"
	"fuelroute/internal/types"
)

var ErrMissingLocations = errors.New("start and finish locations are required")

// Places Nearby caps the search radius at 50km.
const nearbySearchRadiusMeters = 50000

// RouteProvider computes a driving route with sampled points.
type RouteProvider interface {
	Route(ctx context.Context, origin, destination string) (mapsvc.Route, error)
}

// NearbySearcher finds gas stations around a point (visited-states enrichment).
type NearbySearcher interface {
	NearbyGasStations(ctx context.Context, at types.Point, radiusMeters uint) ([]mapsvc.GasStation, error)
}

// StateResolver reverse-geocodes a point to a 2-letter state code.
type StateResolver interface {
	ReverseState(ctx context.Context, p types.Point) (string, error)
}

// Plan is the assembled trip result.
type Plan struct {
	Strategy      string
	RouteMap      string
	DistanceMiles float64
	Stations      []RankedStation
	VisitedStates []string
}

type Deps struct {
	Routes RouteProvider
	Places NearbySearcher
	States StateResolver
	Cache  *RouteCache // optional
}

// Service holds the read-only station table and the configured strategy.
// Stateless across requests; the table is never mutated after construction.
type Service struct {
	routes   RouteProvider
	places   NearbySearcher
	states   StateResolver
	cache    *RouteCache
	table    []fuel.Station
	strategy Strategy
	cfg      config.PlannerConfig
}

func NewService(deps Deps, table []fuel.Station, strategy Strategy, cfg config.PlannerConfig) *Service {
	return &Service{
		routes:   deps.Routes,
		places:   deps.Places,
		states:   deps.States,
		cache:    deps.Cache,
		table:    table,
		strategy: strategy,
		cfg:      cfg,
	}
}

// Optimize plans the trip from start to finish: fetch (or reuse) the route,
// filter stations against its sampled points, run the selection strategy and
// assemble the plan. The whole call runs under the configured deadline.
func (s *Service) Optimize(ctx context.Context, start, finish string) (Plan, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(finish) == "" {
		return Plan{}, ErrMissingLocations
	}

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	route, cached := mapsvc.Route{}, false
	if s.cache != nil {
		route, cached = s.cache.Get(ctx, start, finish)
	}
	if !cached {
		var err error
		route, err = s.routes.Route(ctx, start, finish)
		if err != nil {
			return Plan{}, err
		}
		if s.cache != nil {
			s.cache.Set(ctx, start, finish, route)
		}
	}

	stops := StationsWithinRange(route.Points, s.table, s.cfg.RangeMiles)
	if s.strategy.Name() == StrategyVisitedStates && len(route.Points) > 0 {
		stops = append(stops, s.liveStops(ctx, route.Points)...)
	}

	sel, err := s.strategy.Select(SelectInput{
		Stops:             stops,
		Table:             s.table,
		TripDistanceMiles: route.DistanceMiles,
		VehicleMPG:        s.cfg.VehicleMPG,
	})
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Strategy:      s.strategy.Name(),
		RouteMap:      mapsvc.MapLink(start, finish),
		DistanceMiles: Round2(route.DistanceMiles),
		Stations:      sel.Stations,
		VisitedStates: sel.VisitedStates,
	}, nil
}

// liveStops searches gas stations near each sampled point with bounded
// concurrency, keeps those within vehicle range of the route origin, and tags
// each with its reverse-geocoded state. Per-point failures degrade to fewer
// results, never to a request error.
func (s *Service) liveStops(ctx context.Context, points []types.Point) []EligibleStop {
	if s.places == nil || s.states == nil {
		return nil
	}

	origin := points[0]
	workers := s.cfg.SearchWorkers
	if workers < 1 {
		workers = 1
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		sem  = make(chan struct{}, workers)
		seen = make(map[string]struct{})
		out  []EligibleStop
	)

	for _, pt := range points {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(pt types.Point) {
			defer wg.Done()
			defer func() { <-sem }()

			found, err := s.places.NearbyGasStations(ctx, pt, nearbySearchRadiusMeters)
			if err != nil {
				slog.Warn("nearby search failed", "err", err)
				return
			}

			for _, g := range found {
				d := haversineMiles(origin, g.Location)
				if d > s.cfg.RangeMiles {
					continue
				}
				state, err := s.states.ReverseState(ctx, g.Location)
				if err != nil || state == "" {
					continue
				}

				mu.Lock()
				key := g.Name + "|" + state
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					out = append(out, EligibleStop{
						Station: fuel.Station{
							Name:     g.Name,
							Address:  g.Vicinity,
							State:    state,
							Lat:      g.Location.Lat,
							Lng:      g.Location.Lng,
							Geocoded: true,
						},
						DistanceMiles: d,
					})
				}
				mu.Unlock()
			}
		}(pt)
	}
	wg.Wait()

	return out
}
