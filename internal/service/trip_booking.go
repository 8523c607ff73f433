// README: Booking orchestrator; resolves the route, quotes fares, and opens the trip.
package service

import (
	"context"
	"log/slog"
	"time"

	"ridehub/internal/modules/places"
	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/routing"
	"ridehub/internal/modules/trip"
	"ridehub/internal/types"
)

// Booker ties the routing, pricing, and places collaborators to the trip
// lifecycle. It is the only place where a trip gets its route and quote.
type Booker struct {
	routes  *routing.Resolver
	pricing *pricing.Service
	places  *places.Service
	trips   *trip.Service
	logger  *slog.Logger
}

func NewBooker(routes *routing.Resolver, pricingSvc *pricing.Service, placesSvc *places.Service, trips *trip.Service, logger *slog.Logger) *Booker {
	return &Booker{
		routes:  routes,
		pricing: pricingSvc,
		places:  placesSvc,
		trips:   trips,
		logger:  logger,
	}
}

type BookingRequest struct {
	CustomerID   types.ID
	Pickup       types.Point
	Dropoff      types.Point
	VehicleClass pricing.VehicleClass
	ScheduledAt  *time.Time
}

// Estimate is a quote preview: the resolved route plus the fare for every
// configured vehicle class, without creating anything.
type Estimate struct {
	Route          routing.Result
	PickupAddress  string
	DropoffAddress string
	Fares          map[pricing.VehicleClass]types.Money
}

// Quote resolves the route between the two points and prices it for all
// vehicle classes.
func (b *Booker) Quote(ctx context.Context, pickup, dropoff types.Point) (Estimate, error) {
	res, err := b.routes.Resolve(ctx, pickup, dropoff)
	if err != nil {
		return Estimate{}, err
	}
	fares, err := b.pricing.QuoteAll(res.DistanceMeters)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{
		Route:          res,
		PickupAddress:  b.places.Address(ctx, pickup),
		DropoffAddress: b.places.Address(ctx, dropoff),
		Fares:          fares,
	}, nil
}

// Book resolves the route, quotes the requested class, and creates the trip.
// A ScheduledAt in the request moves the fresh trip onto the scheduled path.
func (b *Booker) Book(ctx context.Context, req BookingRequest) (*trip.Trip, error) {
	res, err := b.routes.Resolve(ctx, req.Pickup, req.Dropoff)
	if err != nil {
		return nil, err
	}
	price, err := b.pricing.QuoteClass(res.DistanceMeters, req.VehicleClass)
	if err != nil {
		return nil, err
	}

	id, err := b.trips.Create(ctx, trip.CreateCommand{
		CustomerID:   req.CustomerID,
		Pickup:       trip.Stop{Position: req.Pickup, Address: b.places.Address(ctx, req.Pickup)},
		Dropoff:      trip.Stop{Position: req.Dropoff, Address: b.places.Address(ctx, req.Dropoff)},
		Route:        res,
		VehicleClass: req.VehicleClass,
		QuotedPrice:  price,
	})
	if err != nil {
		return nil, err
	}
	if req.ScheduledAt != nil {
		if err := b.trips.Schedule(ctx, trip.ScheduleCommand{TripID: id, At: *req.ScheduledAt}); err != nil {
			b.logger.Warn("schedule after create failed", "trip_id", id, "err", err)
			return nil, err
		}
	}
	return b.trips.Get(ctx, id)
}
