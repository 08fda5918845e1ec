// README: Redis cache for computed routes keyed by origin/destination.
package planner

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	mapsvc "fuelroute/internal/maps"
)

// RouteCache stores sampled routes so repeat trips skip the directions and
// elevation calls. Cache failures degrade to a miss, never to a request error.
type RouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRouteCache(rdb *redis.Client) *RouteCache {
	return &RouteCache{rdb: rdb, ttl: time.Hour}
}

func routeKey(origin, destination string) string {
	return "route:" + origin + "|" + destination
}

func (c *RouteCache) Get(ctx context.Context, origin, destination string) (mapsvc.Route, bool) {
	data, err := c.rdb.Get(ctx, routeKey(origin, destination)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("route cache get", "err", err)
		}
		return mapsvc.Route{}, false
	}

	var route mapsvc.Route
	if err := json.Unmarshal(data, &route); err != nil {
		slog.Warn("route cache decode", "err", err)
		return mapsvc.Route{}, false
	}
	return route, true
}

func (c *RouteCache) Set(ctx context.Context, origin, destination string, route mapsvc.Route) {
	data, err := json.Marshal(route)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, routeKey(origin, destination), data, c.ttl).Err(); err != nil {
		slog.Warn("route cache set", "err", err)
	}
}
