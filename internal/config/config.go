// README: Config loader with env defaults for HTTP, Redis, DB, maps and planner settings.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type PlannerConfig struct {
	Strategy       string
	RangeMiles     float64
	VehicleMPG     float64
	RouteSamples   int
	SearchWorkers  int
	RequestTimeout time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Redis struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Fuel struct {
		SourceCSV   string
		GeocodedCSV string
	}
	Maps struct {
		APIKey string
	}
	Planner PlannerConfig
}

func Load() (Config, error) {
	// Local runs keep secrets in .env; absence is fine in production.
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("FUELROUTE_HTTP_ADDR", ":8080")
	cfg.Redis.Addr = envOrDefault("FUELROUTE_REDIS_ADDR", "localhost:6379")
	cfg.DB.DSN = os.Getenv("FUELROUTE_DB_DSN")
	cfg.Fuel.SourceCSV = envOrDefault("FUELROUTE_FUEL_CSV", "data/fuel-prices.csv")
	cfg.Fuel.GeocodedCSV = envOrDefault("FUELROUTE_GEOCODED_CSV", "data/geocoded-fuel-prices.csv")
	cfg.Maps.APIKey = envOrError("GOOGLE_MAPS_API_KEY")
	cfg.Planner.Strategy = envOrDefault("FUELROUTE_STRATEGY", "cheapest_overall")
	cfg.Planner.RangeMiles = envOrDefaultFloat("FUELROUTE_RANGE_MILES", 500)
	cfg.Planner.VehicleMPG = envOrDefaultFloat("FUELROUTE_VEHICLE_MPG", 10)
	cfg.Planner.RouteSamples = envOrDefaultInt("FUELROUTE_ROUTE_SAMPLES", 100)
	cfg.Planner.SearchWorkers = envOrDefaultInt("FUELROUTE_SEARCH_WORKERS", 4)
	cfg.Planner.RequestTimeout = envOrDefaultDuration("FUELROUTE_REQUEST_TIMEOUT", 30*time.Second)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrError(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	panic("environment variable " + key + " is required")
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
