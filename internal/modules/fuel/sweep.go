// README: One-time geocoding sweep that populates station coordinates.
package fuel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"fuelroute/internal/types"
)

// Geocoder resolves a free-form address to coordinates. The bool is false on
// a miss (no results), which is not an error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, bool, error)
}

// Locker provides the single-writer guarantee for the sweep when multiple
// process instances start against the same artifact.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// SweepLock is a Redis SETNX lock with a TTL safety net.
type SweepLock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewSweepLock(rdb *redis.Client) *SweepLock {
	return &SweepLock{rdb: rdb, key: "fuel:geocode_sweep_lock", ttl: 15 * time.Minute}
}

func (l *SweepLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.key, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sweep lock: %w", err)
	}
	return ok, nil
}

func (l *SweepLock) Release(ctx context.Context) error {
	return l.rdb.Del(ctx, l.key).Err()
}

// Sweeper builds the geocoded fuel table: load the persisted artifact if one
// exists, otherwise geocode every station once and persist the result.
type Sweeper struct {
	store        StationStore
	geo          Geocoder
	lock         Locker
	source       string
	pollInterval time.Duration
}

func NewSweeper(store StationStore, geo Geocoder, lock Locker, sourcePath string) *Sweeper {
	return &Sweeper{
		store:        store,
		geo:          geo,
		lock:         lock,
		source:       sourcePath,
		pollInterval: 2 * time.Second,
	}
}

// Prepare returns the geocoded station table, running the external sweep only
// when no artifact exists yet. A single station geocode failure is non-fatal:
// the station keeps empty coordinates and the proximity filter skips it.
func (s *Sweeper) Prepare(ctx context.Context) ([]Station, error) {
	stations, err := s.store.LoadGeocoded(ctx)
	if err == nil {
		return stations, nil
	}
	if !errors.Is(err, ErrNoArtifact) {
		return nil, err
	}

	got, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if !got {
		// Another instance is sweeping; wait for its artifact.
		return s.waitForArtifact(ctx)
	}
	return s.runSweep(ctx)
}

// runSweep performs the external geocoding pass. The caller must hold the lock.
func (s *Sweeper) runSweep(ctx context.Context) ([]Station, error) {
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("release sweep lock", "err", err)
		}
	}()

	stations, err := LoadSource(s.source)
	if err != nil {
		return nil, err
	}

	slog.Info("starting geocoding sweep", "stations", len(stations))
	misses := 0
	for i := range stations {
		if stations[i].Geocoded {
			continue
		}
		pt, ok, err := s.geo.Geocode(ctx, stations[i].FullAddress())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("geocode station failed", "station", stations[i].Name, "err", err)
			misses++
			continue
		}
		if !ok {
			slog.Warn("geocode station miss", "station", stations[i].Name)
			misses++
			continue
		}
		stations[i].Lat, stations[i].Lng, stations[i].Geocoded = pt.Lat, pt.Lng, true
	}
	slog.Info("geocoding sweep complete", "stations", len(stations), "misses", misses)

	if err := s.store.SaveGeocoded(ctx, stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// waitForArtifact polls for the lock holder's artifact. Each tick it also
// re-attempts the lock, so a holder that crashed before persisting only
// stalls waiters until its lock TTL expires, after which one of them takes
// over the sweep.
func (s *Sweeper) waitForArtifact(ctx context.Context) ([]Station, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			stations, err := s.store.LoadGeocoded(ctx)
			if err == nil {
				return stations, nil
			}
			if !errors.Is(err, ErrNoArtifact) {
				return nil, err
			}

			got, err := s.lock.Acquire(ctx)
			if err != nil {
				return nil, err
			}
			if got {
				return s.runSweep(ctx)
			}
		}
	}
}
