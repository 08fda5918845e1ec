package planner

import (
	"testing"

	"fuelroute/internal/modules/fuel"
	"fuelroute/internal/types"
)

func TestStationsWithinRange_SkipsUngeocoded(t *testing.T) {
	points := []types.Point{{Lat: 39.7392, Lng: -104.9903}}
	stations := []fuel.Station{
		{ID: "1", Name: "No Coords", State: "CO", Price: 2.50, Geocoded: false},
		{ID: "2", Name: "Denver Stop", State: "CO", Price: 3.00, Lat: 39.74, Lng: -104.99, Geocoded: true},
	}

	stops := StationsWithinRange(points, stations, 500)
	if len(stops) != 1 {
		t.Fatalf("expected 1 eligible stop, got %d", len(stops))
	}
	if stops[0].Station.ID != "2" {
		t.Errorf("expected geocoded station, got %q", stops[0].Station.ID)
	}
}

func TestStationsWithinRange_DistanceBound(t *testing.T) {
	points := []types.Point{
		{Lat: 41.8781, Lng: -87.6298},  // Chicago
		{Lat: 39.7392, Lng: -104.9903}, // Denver
	}
	stations := []fuel.Station{
		{ID: "denver", State: "CO", Price: 3.00, Lat: 39.74, Lng: -104.99, Geocoded: true},
		{ID: "seattle", State: "WA", Price: 2.80, Lat: 47.6062, Lng: -122.3321, Geocoded: true},
	}

	stops := StationsWithinRange(points, stations, 500)
	for _, stop := range stops {
		if stop.DistanceMiles > 500 {
			t.Errorf("stop %q emitted at %f miles, beyond range", stop.Station.ID, stop.DistanceMiles)
		}
		if stop.Station.ID == "seattle" {
			t.Error("seattle is over 500 miles from every route point and must not be eligible")
		}
	}
}

func TestStationsWithinRange_EmitsOncePerQualifyingPoint(t *testing.T) {
	points := []types.Point{
		{Lat: 39.73, Lng: -104.99},
		{Lat: 39.75, Lng: -104.98},
	}
	stations := []fuel.Station{
		{ID: "1", State: "CO", Price: 3.00, Lat: 39.74, Lng: -104.99, Geocoded: true},
	}

	stops := StationsWithinRange(points, stations, 500)
	if len(stops) != 2 {
		t.Fatalf("expected one emission per qualifying point, got %d", len(stops))
	}
}

func TestStationsWithinRange_EmptyTable(t *testing.T) {
	points := []types.Point{{Lat: 39.7392, Lng: -104.9903}}
	stops := StationsWithinRange(points, nil, 500)
	if len(stops) != 0 {
		t.Fatalf("expected no stops for empty table, got %d", len(stops))
	}
}
