// README: Route preview handlers; per-customer sessions with stale-result discard.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehub/internal/modules/routing"
	"ridehub/internal/types"
)

type RouteHandler struct {
	sessions *routing.SessionRegistry
}

func NewRouteHandler(sessions *routing.SessionRegistry) *RouteHandler {
	return &RouteHandler{sessions: sessions}
}

type routePreviewReq struct {
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`
}

func routeResponse(res routing.Result) map[string]any {
	return map[string]any{
		"distance_meters":  res.DistanceMeters,
		"duration_seconds": res.DurationSeconds,
		"used_fallback":    res.UsedFallback,
	}
}

// Recompute resolves the route for the customer's latest marker positions.
// A recompute superseded by a newer one answers 204; the newer call carries
// the result.
func (h *RouteHandler) Recompute(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing customer id")
		return
	}
	var req routePreviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	session := h.sessions.Session(types.ID(id))
	res, err := session.Recompute(c.Request.Context(),
		types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
	)
	if err != nil {
		if errors.Is(err, routing.ErrSuperseded) {
			c.Status(http.StatusNoContent)
			return
		}
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, routeResponse(res))
}

func (h *RouteHandler) Current(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing customer id")
		return
	}
	res, ok := h.sessions.Session(types.ID(id)).Current()
	if !ok {
		writeError(c, http.StatusNotFound, "no route resolved yet")
		return
	}
	writeJSON(c, http.StatusOK, routeResponse(res))
}
