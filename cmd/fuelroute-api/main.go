// README: Entry point; loads config, runs the geocoding sweep, wires services, starts HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuelroute/internal/config"
	httptransport "fuelroute/internal/http"
	"fuelroute/internal/infra"
	mapsvc "fuelroute/internal/maps"
	"fuelroute/internal/modules/fuel"
	"fuelroute/internal/modules/planner"
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

	routeService, err := mapsvc.NewRouteService(cfg.Maps.APIKey, cfg.Planner.RouteSamples)
	if err != nil {
		log.Fatal(err)
	}
	geocodeService, err := mapsvc.NewGeocodeService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal(err)
	}
	placesService, err := mapsvc.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal(err)
	}

	sweeper := fuel.NewSweeper(store, geocodeService, fuel.NewSweepLock(redisClient), cfg.Fuel.SourceCSV)
	stations, err := sweeper.Prepare(ctx)
	if err != nil {
		log.Fatalf("prepare fuel table: %v", err)
	}

	strategy, err := planner.NewStrategy(cfg.Planner.Strategy)
	if err != nil {
		log.Fatal(err)
	}

	plannerService := planner.NewService(planner.Deps{
		Routes: routeService,
		Places: placesService,
		States: geocodeService,
		Cache:  planner.NewRouteCache(redisClient),
	}, stations, strategy, cfg.Planner)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewRouter(plannerService),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s (strategy=%s, stations=%d)", cfg.HTTP.Addr, strategy.Name(), len(stations))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
