// README: CSV source loading and the geocoded CSV artifact store.
package fuel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrNoArtifact signals that no geocoded table has been persisted yet.
var ErrNoArtifact = errors.New("geocoded artifact not found")

// StationStore persists the geocoded fuel table so the external geocoding
// sweep happens at most once per deployment.
type StationStore interface {
	LoadGeocoded(ctx context.Context) ([]Station, error)
	SaveGeocoded(ctx context.Context, stations []Station) error
}

// LoadSource reads the raw OPIS assessment CSV
// (OPIS Truckstop ID,Truckstop Name,Address,City,State,Rack ID,Retail Price).
func LoadSource(path string) ([]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fuel source %q: %w", path, err)
	}
	defer f.Close()

	stations, err := readStations(f)
	if err != nil {
		return nil, fmt.Errorf("read fuel source %q: %w", path, err)
	}
	return stations, nil
}

// CSVStore is the canonical artifact store: a CSV file carrying the source
// columns plus Latitude/Longitude (empty for stations the geocoder missed).
type CSVStore struct {
	Path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{Path: path}
}

func (s *CSVStore) LoadGeocoded(_ context.Context) ([]Station, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoArtifact
		}
		return nil, fmt.Errorf("open geocoded artifact %q: %w", s.Path, err)
	}
	defer f.Close()

	stations, err := readStations(f)
	if err != nil {
		return nil, fmt.Errorf("read geocoded artifact %q: %w", s.Path, err)
	}
	return stations, nil
}

func (s *CSVStore) SaveGeocoded(_ context.Context, stations []Station) error {
	tmp := s.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create geocoded artifact %q: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	header := []string{
		"OPIS Truckstop ID", "Truckstop Name", "Address", "City", "State",
		"Rack ID", "Retail Price", "Latitude", "Longitude",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write geocoded artifact header: %w", err)
	}

	for _, st := range stations {
		lat, lng := "", ""
		if st.Geocoded {
			lat = strconv.FormatFloat(st.Lat, 'f', -1, 64)
			lng = strconv.FormatFloat(st.Lng, 'f', -1, 64)
		}
		row := []string{
			st.ID, st.Name, st.Address, st.City, st.State, st.RackID,
			strconv.FormatFloat(st.Price, 'f', -1, 64), lat, lng,
		}
		if err := w.Write(row); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("write geocoded artifact row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush geocoded artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close geocoded artifact: %w", err)
	}

	// Rename keeps concurrent readers from ever seeing a half-written table.
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish geocoded artifact: %w", err)
	}
	return nil
}

// readStations parses either CSV layout; columns are located by header name so
// the raw source and the geocoded artifact share one reader.
func readStations(r io.Reader) ([]Station, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"OPIS Truckstop ID", "Truckstop Name", "Address", "City", "State", "Retail Price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var stations []Station
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		price, err := strconv.ParseFloat(field(row, "Retail Price"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid retail price: %w", line, err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("line %d: retail price must be positive", line)
		}

		st := Station{
			ID:      field(row, "OPIS Truckstop ID"),
			RackID:  field(row, "Rack ID"),
			Name:    field(row, "Truckstop Name"),
			Address: field(row, "Address"),
			City:    field(row, "City"),
			State:   field(row, "State"),
			Price:   price,
		}

		latStr, lngStr := field(row, "Latitude"), field(row, "Longitude")
		if latStr != "" && lngStr != "" {
			lat, latErr := strconv.ParseFloat(latStr, 64)
			lng, lngErr := strconv.ParseFloat(lngStr, 64)
			if latErr == nil && lngErr == nil {
				st.Lat, st.Lng, st.Geocoded = lat, lng, true
			}
		}

		stations = append(stations, st)
	}

	return stations, nil
}
