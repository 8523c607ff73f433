// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ridehub/internal/config"
	httptransport "ridehub/internal/http"
	"ridehub/internal/infra"
	"ridehub/internal/logging"
	"ridehub/internal/maps"
	"ridehub/internal/modules/dispatch"
	"ridehub/internal/modules/notify"
	"ridehub/internal/modules/places"
	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/routing"
	"ridehub/internal/modules/trip"
	"ridehub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		log.Fatal(err)
	}

	var router maps.RoutingProvider
	var geocoder maps.GeocodingProvider = maps.NoGeocoder{}
	switch cfg.Routing.Provider {
	case "google":
		google, err := maps.NewGoogleProvider(cfg.Routing.GoogleAPIKey, cfg.Routing.Language, cfg.Routing.Timeout)
		if err != nil {
			log.Fatalf("google maps init: %v", err)
		}
		router = google
		geocoder = google
	case "osrm":
		router = maps.NewOSRMProvider(cfg.Routing.OSRMEndpoint, cfg.Routing.Timeout)
		if cfg.Routing.GoogleAPIKey != "" {
			google, err := maps.NewGoogleProvider(cfg.Routing.GoogleAPIKey, cfg.Routing.Language, cfg.Routing.Timeout)
			if err != nil {
				log.Fatalf("google maps init: %v", err)
			}
			geocoder = google
		}
	default:
		log.Fatalf("unknown routing provider %q", cfg.Routing.Provider)
	}

	pricingStore := pricing.NewStore(dbPool)
	pricingSvc := pricing.NewService(pricingStore, logger)
	if err := pricingSvc.Refresh(ctx); err != nil {
		log.Fatalf("pricing refresh: %v", err)
	}

	resolver := routing.NewResolver(router, logger)
	sessions := routing.NewSessionRegistry(resolver)
	placesSvc := places.NewService(geocoder, logger)

	tripStore := trip.NewPGStore(dbPool)
	notifier := notify.NewLogNotifier(logger)
	tripSvc := trip.NewService(tripStore, notifier, logger)

	pool := dispatch.NewRedisPool(redisClient, cfg.Dispatch.RadiusKm)
	gateway := &dispatch.SimGateway{Outcome: dispatch.OutcomeAccepted}
	coordinator := dispatch.NewCoordinator(pool, gateway, tripSvc, logger, cfg.Dispatch.OfferTimeout, cfg.Dispatch.MaxCandidates)

	booker := service.NewBooker(resolver, pricingSvc, placesSvc, tripSvc, logger)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Booker:   booker,
		Trips:    tripSvc,
		Dispatch: coordinator,
		Pricing:  pricingSvc,
		Places:   placesSvc,
		Sessions: sessions,
		Pool:     pool,
		Logger:   logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr, "routing_provider", cfg.Routing.Provider)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
