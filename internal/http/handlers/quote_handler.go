// README: Fare quote handler; prices a route for every vehicle class.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehub/internal/service"
	"ridehub/internal/types"
)

type QuoteHandler struct {
	booker *service.Booker
}

func NewQuoteHandler(booker *service.Booker) *QuoteHandler {
	return &QuoteHandler{booker: booker}
}

type quoteReq struct {
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`
}

func (h *QuoteHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	est, err := h.booker.Quote(c.Request.Context(),
		types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
	)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	fares := make(map[string]moneyResponse, len(est.Fares))
	for class, price := range est.Fares {
		fares[string(class)] = moneyResponse{Amount: price.Amount, Currency: price.Currency}
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"distance_meters":  est.Route.DistanceMeters,
		"duration_seconds": est.Route.DurationSeconds,
		"used_fallback":    est.Route.UsedFallback,
		"pickup_address":   est.PickupAddress,
		"dropoff_address":  est.DropoffAddress,
		"fares":            fares,
	})
}
