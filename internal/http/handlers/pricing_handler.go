// README: Pricing settings handlers (read snapshot, apply patch, refresh).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehub/internal/modules/pricing"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

func (h *PricingHandler) Get(c *gin.Context) {
	cfg, err := h.pricing.Snapshot()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	multipliers := make(map[string]float64, len(cfg.VehicleMultipliers))
	for class, m := range cfg.VehicleMultipliers {
		multipliers[string(class)] = m
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"base_fare":           cfg.BaseFare,
		"per_km_fare":         cfg.PerKmFare,
		"commission_percent":  cfg.CommissionPercent,
		"vehicle_multipliers": multipliers,
		"manager_contact":     cfg.ManagerContact,
		"currency":            cfg.Currency,
	})
}

type pricingPatchReq struct {
	BaseFare           *int64             `json:"base_fare,omitempty"`
	PerKmFare          *int64             `json:"per_km_fare,omitempty"`
	CommissionPercent  *float64           `json:"commission_percent,omitempty"`
	VehicleMultipliers map[string]float64 `json:"vehicle_multipliers,omitempty"`
	ManagerContact     *string            `json:"manager_contact,omitempty"`
}

func (h *PricingHandler) Patch(c *gin.Context) {
	var req pricingPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	patch := pricing.Patch{
		BaseFare:          req.BaseFare,
		PerKmFare:         req.PerKmFare,
		CommissionPercent: req.CommissionPercent,
		ManagerContact:    req.ManagerContact,
	}
	if len(req.VehicleMultipliers) > 0 {
		patch.VehicleMultipliers = make(map[pricing.VehicleClass]float64, len(req.VehicleMultipliers))
		for class, m := range req.VehicleMultipliers {
			patch.VehicleMultipliers[pricing.VehicleClass(class)] = m
		}
	}
	if err := h.pricing.Apply(c.Request.Context(), patch); err != nil {
		writeDomainError(c, err)
		return
	}
	h.Get(c)
}

func (h *PricingHandler) Refresh(c *gin.Context) {
	if err := h.pricing.Refresh(c.Request.Context()); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": "ok"})
}
