// README: Place search handlers (autocomplete, reverse geocode).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridehub/internal/modules/places"
	"ridehub/internal/types"
)

type PlacesHandler struct {
	places *places.Service
}

func NewPlacesHandler(svc *places.Service) *PlacesHandler {
	return &PlacesHandler{places: svc}
}

func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		writeError(c, http.StatusBadRequest, "missing q")
		return
	}
	var focus *types.Point
	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			writeError(c, http.StatusBadRequest, "invalid lat/lng")
			return
		}
		focus = &types.Point{Lat: lat, Lng: lng}
	}
	suggestions, err := h.places.Suggest(c.Request.Context(), query, focus)
	if err != nil {
		// A newer query superseded this one; the client already moved on.
		if errors.Is(err, places.ErrSuperseded) {
			c.Status(http.StatusNoContent)
			return
		}
		writeDomainError(c, err)
		return
	}
	out := make([]map[string]any, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, map[string]any{
			"label": s.Label,
			"lat":   s.Position.Lat,
			"lng":   s.Position.Lng,
		})
	}
	writeJSON(c, http.StatusOK, map[string]any{"suggestions": out})
}

func (h *PlacesHandler) ReverseGeocode(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "invalid lat/lng")
		return
	}
	addr := h.places.Address(c.Request.Context(), types.Point{Lat: lat, Lng: lng})
	writeJSON(c, http.StatusOK, map[string]any{"address": addr})
}
