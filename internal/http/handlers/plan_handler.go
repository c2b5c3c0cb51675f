package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"electrochile/internal/geo"
	"electrochile/internal/planner"
	"electrochile/internal/service"
)

type planRequest struct {
	Origin      *geo.Point     `json:"origin"`
	Destination *geo.Point     `json:"destination"`
	Route       *planner.Route `json:"route"`

	BatteryCapacityKwh float64 `json:"battery_capacity_kwh"`
	StartSocPercent    float64 `json:"start_soc_percent"`
	Terrain            string  `json:"terrain"`
	CorridorKm         float64 `json:"corridor_km"`
}

// NewPlanHandler plans charging stops for a trip.
func NewPlanHandler(trips *service.Trips, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		plan, err := trips.Plan(r.Context(), service.PlanRequest{
			Origin:             req.Origin,
			Destination:        req.Destination,
			Route:              req.Route,
			BatteryCapacityKwh: req.BatteryCapacityKwh,
			StartSocPercent:    req.StartSocPercent,
			Terrain:            planner.Terrain(req.Terrain),
			CorridorKm:         req.CorridorKm,
		})
		if err != nil {
			logger.Warn("plan request rejected", zap.Error(err))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, plan)
	}
}
