// README: Selection strategies — cheapest overall, and cheapest per visited state.
package planner

import (
	"errors"
	"fmt"
	"sort"

	"fuelroute/internal/modules/fuel"
)

var ErrNoEligibleStations = errors.New("no eligible stations")

const (
	StrategyCheapestOverall = "cheapest_overall"
	StrategyVisitedStates   = "visited_states"
)

// SelectInput is everything a strategy may consult.
type SelectInput struct {
	Stops             []EligibleStop // proximity-filtered (plus live-search) stops
	Table             []fuel.Station // full station table
	TripDistanceMiles float64
	VehicleMPG        float64
}

// RankedStation is one selected stop. TotalCost is nil when the strategy
// could not pair the station back to an eligible stop.
type RankedStation struct {
	Station       fuel.Station
	DistanceMiles float64
	TotalCost     *float64
}

// Selection is a strategy's result.
type Selection struct {
	Stations      []RankedStation
	VisitedStates []string
}

// Strategy picks fuel stops from the eligible set. Implementations must be
// deterministic: the same input always yields the same selection.
type Strategy interface {
	Name() string
	Select(in SelectInput) (Selection, error)
}

// NewStrategy resolves a configured strategy name.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyCheapestOverall:
		return cheapestOverall{}, nil
	case StrategyVisitedStates:
		return visitedStates{}, nil
	default:
		return nil, fmt.Errorf("unknown selection strategy %q", name)
	}
}

// less orders by price, then distance, then station id, making selection
// deterministic when prices tie.
func less(a, b RankedStation) bool {
	if a.Station.Price != b.Station.Price {
		return a.Station.Price < b.Station.Price
	}
	if a.DistanceMiles != b.DistanceMiles {
		return a.DistanceMiles < b.DistanceMiles
	}
	return a.Station.ID < b.Station.ID
}

// dedupeStops collapses repeated emissions of one station (once per
// qualifying route point) down to its smallest distance.
func dedupeStops(stops []EligibleStop) []RankedStation {
	// Live-search stops carry no OPIS id, so the name is part of the key.
	type key struct{ id, rack, name string }
	best := make(map[key]RankedStation)
	order := make([]key, 0, len(stops))
	for _, stop := range stops {
		k := key{stop.Station.ID, stop.Station.RackID, stop.Station.Name}
		cur, ok := best[k]
		if !ok {
			best[k] = RankedStation{Station: stop.Station, DistanceMiles: stop.DistanceMiles}
			order = append(order, k)
			continue
		}
		if stop.DistanceMiles < cur.DistanceMiles {
			cur.DistanceMiles = stop.DistanceMiles
			best[k] = cur
		}
	}

	out := make([]RankedStation, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// cheapestOverall picks the single minimum-price eligible station and prices
// the whole trip at it.
type cheapestOverall struct{}

func (cheapestOverall) Name() string { return StrategyCheapestOverall }

func (cheapestOverall) Select(in SelectInput) (Selection, error) {
	if len(in.Stops) == 0 {
		return Selection{}, ErrNoEligibleStations
	}

	candidates := dedupeStops(in.Stops)
	pick := candidates[0]
	for _, c := range candidates[1:] {
		if less(c, pick) {
			pick = c
		}
	}

	cost := Round2(EstimateCost(in.TripDistanceMiles, pick.Station.Price, in.VehicleMPG))
	pick.TotalCost = &cost
	return Selection{Stations: []RankedStation{pick}}, nil
}

// visitedStates widens the pool to every station in a state touched by the
// route, picks the 5 cheapest, and pairs each back to an eligible stop (by
// state and coordinates) for costing; unmatched picks carry no cost. The
// wider pool is deliberate: any station in a visited state qualifies, not
// just those near a sampled point.
type visitedStates struct{}

func (visitedStates) Name() string { return StrategyVisitedStates }

const visitedStatesLimit = 5

func (visitedStates) Select(in SelectInput) (Selection, error) {
	if len(in.Stops) == 0 {
		return Selection{}, ErrNoEligibleStations
	}

	visited := make(map[string]struct{})
	for _, stop := range in.Stops {
		if stop.Station.State != "" {
			visited[stop.Station.State] = struct{}{}
		}
	}
	states := make([]string, 0, len(visited))
	for st := range visited {
		states = append(states, st)
	}
	sort.Strings(states)

	var candidates []RankedStation
	for _, st := range in.Table {
		if _, ok := visited[st.State]; ok {
			candidates = append(candidates, RankedStation{Station: st})
		}
	}
	if len(candidates) == 0 {
		return Selection{}, ErrNoEligibleStations
	}

	sort.Slice(candidates, func(i, j int) bool { return less(candidates[i], candidates[j]) })
	if len(candidates) > visitedStatesLimit {
		candidates = candidates[:visitedStatesLimit]
	}

	eligible := dedupeStops(in.Stops)
	for i := range candidates {
		for _, e := range eligible {
			if e.Station.State == candidates[i].Station.State &&
				e.Station.Lat == candidates[i].Station.Lat &&
				e.Station.Lng == candidates[i].Station.Lng {
				cost := Round2(EstimateCost(in.TripDistanceMiles, candidates[i].Station.Price, in.VehicleMPG))
				candidates[i].TotalCost = &cost
				candidates[i].DistanceMiles = e.DistanceMiles
				break
			}
		}
	}

	return Selection{Stations: candidates, VisitedStates: states}, nil
}
