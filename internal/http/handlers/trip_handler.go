// README: Trip handlers for booking, lifecycle transitions, and dispatch.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehub/internal/modules/dispatch"
	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/trip"
	"ridehub/internal/service"
	"ridehub/internal/types"
)

type TripHandler struct {
	booker   *service.Booker
	trips    *trip.Service
	dispatch *dispatch.Coordinator
}

func NewTripHandler(booker *service.Booker, trips *trip.Service, coordinator *dispatch.Coordinator) *TripHandler {
	return &TripHandler{booker: booker, trips: trips, dispatch: coordinator}
}

type createTripReq struct {
	CustomerID   string  `json:"customer_id"`
	PickupLat    float64 `json:"pickup_lat"`
	PickupLng    float64 `json:"pickup_lng"`
	DropoffLat   float64 `json:"dropoff_lat"`
	DropoffLng   float64 `json:"dropoff_lng"`
	VehicleClass string  `json:"vehicle_class"`
	ScheduledAt  string  `json:"scheduled_at,omitempty"`
}

type moneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type tripResponse struct {
	TripID          string         `json:"trip_id"`
	Status          string         `json:"status"`
	CustomerID      string         `json:"customer_id"`
	DriverID        string         `json:"driver_id,omitempty"`
	VehicleClass    string         `json:"vehicle_class"`
	PickupAddress   string         `json:"pickup_address,omitempty"`
	DropoffAddress  string         `json:"dropoff_address,omitempty"`
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
	UsedFallback    bool           `json:"used_fallback"`
	QuotedPrice     moneyResponse  `json:"quoted_price"`
	FinalPrice      *moneyResponse `json:"final_price,omitempty"`
	ScheduledAt     *time.Time     `json:"scheduled_at,omitempty"`
}

func toTripResponse(t *trip.Trip) tripResponse {
	resp := tripResponse{
		TripID:          string(t.ID),
		Status:          string(t.Status),
		CustomerID:      string(t.CustomerID),
		VehicleClass:    string(t.VehicleClass),
		PickupAddress:   t.Pickup.Address,
		DropoffAddress:  t.Dropoff.Address,
		DistanceMeters:  t.Route.DistanceMeters,
		DurationSeconds: t.Route.DurationSeconds,
		UsedFallback:    t.Route.UsedFallback,
		QuotedPrice:     moneyResponse{Amount: t.QuotedPrice.Amount, Currency: t.QuotedPrice.Currency},
		ScheduledAt:     t.ScheduledAt,
	}
	if t.DriverID != nil {
		resp.DriverID = string(*t.DriverID)
	}
	if t.FinalPrice != nil {
		resp.FinalPrice = &moneyResponse{Amount: t.FinalPrice.Amount, Currency: t.FinalPrice.Currency}
	}
	return resp
}

func (h *TripHandler) Create(c *gin.Context) {
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" || req.VehicleClass == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	booking := service.BookingRequest{
		CustomerID:   types.ID(req.CustomerID),
		Pickup:       types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Dropoff:      types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		VehicleClass: pricing.VehicleClass(req.VehicleClass),
	}
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid scheduled_at")
			return
		}
		booking.ScheduledAt = &at
	}
	t, err := h.booker.Book(c.Request.Context(), booking)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toTripResponse(t))
}

func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	t, err := h.trips.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}

func (h *TripHandler) Accept(c *gin.Context) {
	id := c.Param("id")
	driverID := c.Query("driver_id")
	if id == "" || driverID == "" {
		writeError(c, http.StatusBadRequest, "missing trip id or driver_id")
		return
	}
	err := h.trips.Accept(c.Request.Context(), trip.AcceptCommand{
		TripID:   types.ID(id),
		DriverID: types.ID(driverID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": trip.StatusAccepted})
}

func (h *TripHandler) Arrive(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	if err := h.trips.Arrive(c.Request.Context(), trip.ArriveCommand{TripID: types.ID(id)}); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": trip.StatusDriverArrived})
}

func (h *TripHandler) Start(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	if err := h.trips.Start(c.Request.Context(), trip.StartCommand{TripID: types.ID(id)}); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": trip.StatusInProgress})
}

type completeTripReq struct {
	FinalAmount   *int64 `json:"final_amount,omitempty"`
	FinalCurrency string `json:"final_currency,omitempty"`
}

func (h *TripHandler) Complete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	var req completeTripReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	cmd := trip.CompleteCommand{TripID: types.ID(id)}
	if req.FinalAmount != nil {
		cmd.FinalPrice = &types.Money{Amount: *req.FinalAmount, Currency: req.FinalCurrency}
	}
	if err := h.trips.Complete(c.Request.Context(), cmd); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": trip.StatusCompleted})
}

type cancelTripReq struct {
	ActorType string `json:"actor_type"`
	Reason    string `json:"reason"`
}

func (h *TripHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	var req cancelTripReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if req.ActorType == "" {
		req.ActorType = "customer"
	}
	err := h.trips.Cancel(c.Request.Context(), trip.CancelCommand{
		TripID:    types.ID(id),
		ActorType: req.ActorType,
		Reason:    req.Reason,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": trip.StatusCancelled})
}

func (h *TripHandler) Dispatch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	driverID, err := h.dispatch.Dispatch(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"status":    trip.StatusAccepted,
		"driver_id": driverID,
	})
}
