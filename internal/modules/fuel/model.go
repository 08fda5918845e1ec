// README: Fuel station record loaded from the OPIS price table.
package fuel

import "fuelroute/internal/types"

// Station is one row of the fuel price table. Lat/Lng are meaningful only
// when Geocoded is true; both are always set or unset together.
type Station struct {
	ID      string
	RackID  string
	Name    string
	Address string
	City    string
	State   string
	Price   float64

	Lat      float64
	Lng      float64
	Geocoded bool
}

// Location returns the station coordinates. Callers must check Geocoded first.
func (s Station) Location() types.Point {
	return types.Point{Lat: s.Lat, Lng: s.Lng}
}

// FullAddress is the query string handed to the geocoder.
func (s Station) FullAddress() string {
	return s.Address + ", " + s.City + ", " + s.State
}
