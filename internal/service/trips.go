package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"electrochile/internal/geo"
	"electrochile/internal/planner"
)

// DirectionsClient resolves a driving route between two points.
type DirectionsClient interface {
	Route(ctx context.Context, origin, dest geo.Point) (*planner.Route, error)
}

// PlanRequest carries everything needed to plan one trip. Either an
// explicit route polyline or an origin/destination pair must be set;
// an explicit route wins.
type PlanRequest struct {
	Origin      *geo.Point
	Destination *geo.Point
	Route       *planner.Route

	BatteryCapacityKwh float64
	StartSocPercent    float64
	Terrain            planner.Terrain
	CorridorKm         float64
}

// Trips plans charging stops for routes against the current catalog.
type Trips struct {
	catalog    *Catalog
	directions DirectionsClient
	logger     *zap.Logger
}

// NewTrips builds the trip-planning service.
func NewTrips(catalog *Catalog, directions DirectionsClient, logger *zap.Logger) *Trips {
	return &Trips{catalog: catalog, directions: directions, logger: logger}
}

// Plan resolves the route if needed and runs the planning pipeline.
func (t *Trips) Plan(ctx context.Context, req PlanRequest) (*planner.TripPlan, error) {
	route := req.Route
	if route == nil {
		if req.Origin == nil || req.Destination == nil {
			return nil, errors.New("either a route or origin and destination are required")
		}
		if t.directions == nil {
			return nil, errors.New("no directions service configured")
		}
		resolved, err := t.directions.Route(ctx, *req.Origin, *req.Destination)
		if err != nil {
			return nil, fmt.Errorf("resolve route: %w", err)
		}
		route = resolved
	}

	terrain := req.Terrain
	if terrain == "" {
		terrain = planner.TerrainModerate
	}
	consumption, err := planner.ConsumptionFor(terrain)
	if err != nil {
		return nil, err
	}

	plan, err := planner.BuildPlan(t.catalog.Stations(), *route, planner.Params{
		BatteryCapacityKwh:  req.BatteryCapacityKwh,
		StartSocPercent:     req.StartSocPercent,
		ConsumptionPer100Km: consumption,
		CorridorKm:          req.CorridorKm,
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("trip planned",
		zap.Float64("total_km", plan.TotalDistanceKm),
		zap.Int("stops", len(plan.Stops)),
		zap.Int("destination_soc", plan.DestinationSocPercent))
	return plan, nil
}
