// README: Proximity filter — stations within vehicle range of sampled route points.
package planner

import (
	"fuelroute/internal/modules/fuel"
	"fuelroute/internal/types"
)

// EligibleStop pairs a station with its distance to one qualifying route point.
type EligibleStop struct {
	Station       fuel.Station
	DistanceMiles float64
}

// StationsWithinRange scans every (route point, station) pair and emits an
// EligibleStop for each pair within rangeMiles. Stations without coordinates
// are skipped; a station may appear once per qualifying point, dedup is the
// selection strategy's concern. An empty result is a value, not an error.
// O(points x stations) is fine at the expected sizes (hundreds of stations,
// tens of sample points).
func StationsWithinRange(points []types.Point, stations []fuel.Station, rangeMiles float64) []EligibleStop {
	var stops []EligibleStop
	for _, pt := range points {
		for _, st := range stations {
			if !st.Geocoded {
				continue
			}
			d := haversineMiles(pt, st.Location())
			if d <= rangeMiles {
				stops = append(stops, EligibleStop{Station: st, DistanceMiles: d})
			}
		}
	}
	return stops
}
