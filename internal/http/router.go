// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ridehub/internal/http/handlers"
	"ridehub/internal/http/middleware"
	"ridehub/internal/modules/dispatch"
	"ridehub/internal/modules/places"
	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/routing"
	"ridehub/internal/modules/trip"
	"ridehub/internal/service"
)

type RouterDeps struct {
	Booker   *service.Booker
	Trips    *trip.Service
	Dispatch *dispatch.Coordinator
	Pricing  *pricing.Service
	Places   *places.Service
	Sessions *routing.SessionRegistry
	Pool     *dispatch.RedisPool
	Logger   *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	tripHandler := handlers.NewTripHandler(deps.Booker, deps.Trips, deps.Dispatch)
	r.POST("/api/trips", tripHandler.Create)
	r.GET("/api/trips/:id", tripHandler.Get)
	r.POST("/api/trips/:id/accept", tripHandler.Accept)
	r.POST("/api/trips/:id/arrive", tripHandler.Arrive)
	r.POST("/api/trips/:id/start", tripHandler.Start)
	r.POST("/api/trips/:id/complete", tripHandler.Complete)
	r.POST("/api/trips/:id/cancel", tripHandler.Cancel)
	r.POST("/api/trips/:id/dispatch", tripHandler.Dispatch)

	quoteHandler := handlers.NewQuoteHandler(deps.Booker)
	r.POST("/api/quotes", quoteHandler.Quote)

	routeHandler := handlers.NewRouteHandler(deps.Sessions)
	r.POST("/api/customers/:id/route", routeHandler.Recompute)
	r.GET("/api/customers/:id/route", routeHandler.Current)

	placesHandler := handlers.NewPlacesHandler(deps.Places)
	r.GET("/api/places/autocomplete", placesHandler.Autocomplete)
	r.GET("/api/places/reverse", placesHandler.ReverseGeocode)

	pricingHandler := handlers.NewPricingHandler(deps.Pricing)
	r.GET("/api/pricing", pricingHandler.Get)
	r.PATCH("/api/pricing", pricingHandler.Patch)
	r.POST("/api/pricing/refresh", pricingHandler.Refresh)

	if deps.Pool != nil {
		driverHandler := handlers.NewDriverHandler(deps.Pool)
		r.PUT("/api/drivers/:id/availability", driverHandler.SetAvailability)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
