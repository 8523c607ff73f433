// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"ridehub/internal/modules/dispatch"
	"ridehub/internal/modules/places"
	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/routing"
	"ridehub/internal/modules/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module errors onto HTTP statuses. Unknown errors
// stay opaque 500s.
func writeDomainError(c *gin.Context, err error) {
	var invalid *trip.InvalidTransitionError
	var validation validator.ValidationErrors
	switch {
	case errors.Is(err, trip.ErrBadRequest),
		errors.Is(err, pricing.ErrUnknownVehicleClass),
		errors.As(err, &validation):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrConflict),
		errors.Is(err, trip.ErrTerminal),
		errors.Is(err, dispatch.ErrNoDriversAvailable),
		errors.As(err, &invalid):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, routing.ErrNoRouteFound):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, routing.ErrServiceUnavailable),
		errors.Is(err, places.ErrGeocodingUnavailable),
		errors.Is(err, pricing.ErrConfigUnavailable),
		errors.Is(err, pricing.ErrConfigSchemaOutdated):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
