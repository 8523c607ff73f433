// README: Driver availability handlers backed by the GEO candidate pool.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehub/internal/modules/dispatch"
	"ridehub/internal/types"
)

type DriverHandler struct {
	pool *dispatch.RedisPool
}

func NewDriverHandler(pool *dispatch.RedisPool) *DriverHandler {
	return &DriverHandler{pool: pool}
}

type availabilityReq struct {
	Available bool    `json:"available"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

func (h *DriverHandler) SetAvailability(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	var req availabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	var err error
	if req.Available {
		err = h.pool.SetAvailable(c.Request.Context(), types.ID(id), types.Point{Lat: req.Lat, Lng: req.Lng})
	} else {
		err = h.pool.SetUnavailable(c.Request.Context(), types.ID(id))
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": "ok"})
}
