// README: Offline geocoding sweep; pre-builds the geocoded fuel table so API instances start warm.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fuelroute/internal/config"
	"fuelroute/internal/infra"
	mapsvc "fuelroute/internal/maps"
	"fuelroute/internal/modules/fuel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var store fuel.StationStore = fuel.NewCSVStore(cfg.Fuel.GeocodedCSV)
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		pgStore := fuel.NewPGStore(dbPool)
		if err := pgStore.InitSchema(ctx); err != nil {
			log.Fatal(err)
		}
		store = pgStore
	}

	geocodeService, err := mapsvc.NewGeocodeService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal(err)
	}

	sweeper := fuel.NewSweeper(store, geocodeService, fuel.NewSweepLock(redisClient), cfg.Fuel.SourceCSV)
	stations, err := sweeper.Prepare(ctx)
	if err != nil {
		log.Fatal(err)
	}

	geocoded := 0
	for _, st := range stations {
		if st.Geocoded {
			geocoded++
		}
	}
	log.Printf("fuel table ready: %d stations, %d geocoded", len(stations), geocoded)
}
