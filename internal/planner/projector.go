package planner

import (
	"errors"
	"fmt"
	"math"
)

// chargeTargetFactor is the state of charge the driver is assumed to
// reach at each mandatory stop before continuing.
const chargeTargetFactor = 0.8

// Terrain selects a per-100km consumption preset. The projector itself
// is terrain-agnostic and only consumes the resulting number.
type Terrain string

const (
	TerrainFlat     Terrain = "flat"
	TerrainModerate Terrain = "moderate"
	TerrainMountain Terrain = "mountain"
)

var terrainConsumption = map[Terrain]float64{
	TerrainFlat:     15,
	TerrainModerate: 17,
	TerrainMountain: 21,
}

// ConsumptionFor returns the kWh/100km preset for a terrain key.
func ConsumptionFor(t Terrain) (float64, error) {
	c, ok := terrainConsumption[t]
	if !ok {
		return 0, fmt.Errorf("unknown terrain preset %q", t)
	}
	return c, nil
}

// Projection is the result of walking a stop sequence: the stops with
// arrival state of charge filled in, and the projected charge at the
// destination.
type Projection struct {
	Stops                 []ChargeStop `json:"stops"`
	DestinationSocPercent int          `json:"destination_soc_percent"`
}

// ProjectEnergy simulates state-of-charge depletion and recharge along
// the chosen stops. Mandatory stops recharge to 80%; optional stops are
// not assumed to be used. Negative projected energy clamps to 0%: it
// signals an under-provisioned plan, not a crash.
func ProjectEnergy(stops []ChargeStop, startSocPercent, capacityKwh, consumptionPer100 float64, totalKm float64) (Projection, error) {
	if capacityKwh <= 0 {
		return Projection{}, errors.New("battery capacity must be positive")
	}
	if consumptionPer100 <= 0 {
		return Projection{}, errors.New("consumption must be positive")
	}
	if startSocPercent < 0 || startSocPercent > 100 {
		return Projection{}, fmt.Errorf("start soc %.1f out of range", startSocPercent)
	}

	out := make([]ChargeStop, len(stops))
	copy(out, stops)

	energy := capacityKwh * startSocPercent / 100
	prevKm := 0.0
	for i := range out {
		energy -= (out[i].RouteKm - prevKm) * consumptionPer100 / 100
		out[i].ArrivalSocPercent = socPercent(energy, capacityKwh)
		if !out[i].IsOptional {
			energy = capacityKwh * chargeTargetFactor
		}
		prevKm = out[i].RouteKm
	}
	energy -= (totalKm - prevKm) * consumptionPer100 / 100

	return Projection{
		Stops:                 out,
		DestinationSocPercent: socPercent(energy, capacityKwh),
	}, nil
}

func socPercent(energy, capacity float64) int {
	return int(math.Round(math.Max(0, energy/capacity*100)))
}
