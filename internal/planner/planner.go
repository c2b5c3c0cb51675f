package planner

import (
	"errors"

	"electrochile/internal/geo"
	"electrochile/internal/stations"
)

// DefaultStartSocPercent is assumed when the caller does not say how
// charged the battery is at departure.
const DefaultStartSocPercent = 80

// Route is a resolved driving route as returned by the external
// directions service: ordered vertices plus totals.
type Route struct {
	Points         []geo.Point `json:"points"`
	DistanceMeters float64     `json:"distance_meters"`
	DurationSec    float64     `json:"duration_seconds"`
}

// Params are the trip parameters supplied by the caller.
type Params struct {
	BatteryCapacityKwh  float64
	StartSocPercent     float64
	ConsumptionPer100Km float64
	CorridorKm          float64
}

// TripPlan is the planner output rendered by the UI layer.
type TripPlan struct {
	TotalDistanceKm       float64      `json:"total_distance_km"`
	DurationMinutes       float64      `json:"duration_minutes"`
	EstimatedRangeKm      float64      `json:"estimated_range_km"`
	Stops                 []ChargeStop `json:"stops"`
	DestinationSocPercent int          `json:"destination_soc_percent"`
}

// BuildPlan runs the full pipeline: corridor matching, stop selection
// and energy projection. It is a pure function of its inputs; repeated
// invocation with the same inputs yields an identical plan.
func BuildPlan(sts []stations.Station, route Route, p Params) (*TripPlan, error) {
	if len(route.Points) < 2 {
		return nil, errors.New("route must have at least two points")
	}
	if p.BatteryCapacityKwh <= 0 {
		return nil, errors.New("battery capacity must be positive")
	}
	if p.ConsumptionPer100Km <= 0 {
		return nil, errors.New("consumption must be positive")
	}
	if p.StartSocPercent <= 0 {
		p.StartSocPercent = DefaultStartSocPercent
	}

	totalKm := route.DistanceMeters / 1000
	rangeKm := p.BatteryCapacityKwh * (p.StartSocPercent / 100) / p.ConsumptionPer100Km * 100

	matches := MatchAlongRoute(sts, route.Points, p.CorridorKm)
	stops := SelectStops(matches, rangeKm, totalKm)
	projection, err := ProjectEnergy(stops, p.StartSocPercent, p.BatteryCapacityKwh, p.ConsumptionPer100Km, totalKm)
	if err != nil {
		return nil, err
	}

	return &TripPlan{
		TotalDistanceKm:       totalKm,
		DurationMinutes:       route.DurationSec / 60,
		EstimatedRangeKm:      rangeKm,
		Stops:                 projection.Stops,
		DestinationSocPercent: projection.DestinationSocPercent,
	}, nil
}
