package fuel

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"fuelroute/internal/types"
)

type memStore struct {
	stations []Station
	saves    int
}

func (m *memStore) LoadGeocoded(_ context.Context) ([]Station, error) {
	if m.stations == nil {
		return nil, ErrNoArtifact
	}
	return m.stations, nil
}

func (m *memStore) SaveGeocoded(_ context.Context, stations []Station) error {
	m.stations = stations
	m.saves++
	return nil
}

type fakeGeocoder struct {
	coords map[string]types.Point
	calls  int
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (types.Point, bool, error) {
	f.calls++
	p, ok := f.coords[address]
	return p, ok, nil
}

type fakeLock struct{}

func (fakeLock) Acquire(_ context.Context) (bool, error) { return true, nil }
func (fakeLock) Release(_ context.Context) error         { return nil }

// staleLock denies Acquire until attempt grantOn, simulating a holder whose
// lock only frees up after its TTL expires.
type staleLock struct {
	attempts int
	grantOn  int
	releases int
}

func (l *staleLock) Acquire(_ context.Context) (bool, error) {
	l.attempts++
	return l.attempts >= l.grantOn, nil
}

func (l *staleLock) Release(_ context.Context) error {
	l.releases++
	return nil
}

func TestSweeper_GeocodesAndPersists(t *testing.T) {
	source := writeTempCSV(t, sourceCSV)
	store := &memStore{}
	geo := &fakeGeocoder{coords: map[string]types.Point{
		"I-44 EXIT 283 & US-69, BIG CABIN, OK": {Lat: 36.54, Lng: -95.22},
		// FOREST CITY address deliberately missing: a geocode miss.
	}}

	sweeper := NewSweeper(store, geo, fakeLock{}, source)
	stations, err := sweeper.Prepare(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if !stations[0].Geocoded || stations[0].Lat != 36.54 {
		t.Errorf("expected first station geocoded, got %+v", stations[0])
	}
	if stations[1].Geocoded {
		t.Errorf("geocode miss must leave coordinates unset, got %+v", stations[1])
	}
	if store.saves != 1 {
		t.Errorf("expected one persisted artifact, got %d saves", store.saves)
	}
}

func TestSweeper_SkipsExternalCallsWhenArtifactExists(t *testing.T) {
	store := &memStore{stations: []Station{
		{ID: "1000", Name: "A", State: "OK", Price: 3.0, Lat: 36.5, Lng: -95.2, Geocoded: true},
	}}
	geo := &fakeGeocoder{}

	sweeper := NewSweeper(store, geo, fakeLock{}, "does-not-exist.csv")
	stations, err := sweeper.Prepare(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}
	if geo.calls != 0 {
		t.Errorf("expected no geocoder calls, got %d", geo.calls)
	}
	if store.saves != 0 {
		t.Errorf("expected no re-persist, got %d saves", store.saves)
	}
}

func TestSweeper_TakesOverSweepAfterLockExpires(t *testing.T) {
	source := writeTempCSV(t, sourceCSV)
	store := &memStore{}
	geo := &fakeGeocoder{coords: map[string]types.Point{
		"I-44 EXIT 283 & US-69, BIG CABIN, OK": {Lat: 36.54, Lng: -95.22},
		"955 HWY 9 WEST, FOREST CITY, IA":      {Lat: 43.25, Lng: -93.64},
	}}
	// First Acquire loses; the holder never persists an artifact. The third
	// attempt (second from inside the wait loop) succeeds, as it would once
	// the crashed holder's lock TTL lapses.
	lock := &staleLock{grantOn: 3}

	sweeper := NewSweeper(store, geo, lock, source)
	sweeper.pollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stations, err := sweeper.Prepare(ctx)
	if err != nil {
		t.Fatalf("expected takeover of the sweep, got error: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if store.saves != 1 {
		t.Errorf("expected the taking-over instance to persist once, got %d saves", store.saves)
	}
	if lock.attempts < 3 {
		t.Errorf("expected repeated lock attempts while waiting, got %d", lock.attempts)
	}
	if lock.releases != 1 {
		t.Errorf("expected the lock released after the sweep, got %d releases", lock.releases)
	}
}

func TestSweepLock(t *testing.T) {
	redisAddr := os.Getenv("FUELROUTE_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("FUELROUTE_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lock := NewSweepLock(rdb)
	defer func() { _ = lock.Release(ctx) }()

	got, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !got {
		t.Fatal("expected to acquire a fresh lock")
	}

	again, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if again {
		t.Error("second acquire must fail while lock is held")
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	third, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("third acquire: %v", err)
	}
	if !third {
		t.Error("expected to re-acquire after release")
	}
}
