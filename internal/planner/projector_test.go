package planner

import (
	"reflect"
	"testing"
)

func mandatoryStop(routeKm float64) ChargeStop {
	return ChargeStop{RouteMatch: RouteMatch{RouteKm: routeKm}}
}

func TestProjectEnergyTwoStopTrip(t *testing.T) {
	// 60 kWh battery at 80%, moderate terrain, stops at km 230 and 460
	// on a 500 km trip.
	stops := []ChargeStop{mandatoryStop(230), mandatoryStop(460)}

	proj, err := ProjectEnergy(stops, 80, 60, 17, 500)
	if err != nil {
		t.Fatalf("project energy: %v", err)
	}

	// 48 kWh - 230*0.17 = 8.9 kWh -> 14.83% -> 15.
	if got := proj.Stops[0].ArrivalSocPercent; got != 15 {
		t.Fatalf("first arrival soc = %d, want 15", got)
	}
	// Recharged to 80% at the first stop, same leg length again.
	if got := proj.Stops[1].ArrivalSocPercent; got != 15 {
		t.Fatalf("second arrival soc = %d, want 15", got)
	}
	// Recharged to 80% at the second stop too: 48 - 40*0.17 = 41.2 kWh
	// -> 68.67% -> 69.
	if proj.DestinationSocPercent != 69 {
		t.Fatalf("destination soc = %d, want 69", proj.DestinationSocPercent)
	}
}

func TestProjectEnergyOptionalStopNotUsed(t *testing.T) {
	optional := ChargeStop{RouteMatch: RouteMatch{RouteKm: 100}, IsOptional: true}

	proj, err := ProjectEnergy([]ChargeStop{optional}, 80, 60, 17, 200)
	if err != nil {
		t.Fatalf("project energy: %v", err)
	}
	// 48 - 100*0.17 = 31 kWh -> 51.67% -> 52 at the stop.
	if got := proj.Stops[0].ArrivalSocPercent; got != 52 {
		t.Fatalf("arrival soc = %d, want 52", got)
	}
	// No recharge assumed: 31 - 100*0.17 = 14 kWh -> 23.33% -> 23.
	if proj.DestinationSocPercent != 23 {
		t.Fatalf("destination soc = %d, want 23", proj.DestinationSocPercent)
	}
}

func TestProjectEnergyClampsAtZero(t *testing.T) {
	proj, err := ProjectEnergy(nil, 80, 60, 17, 1000)
	if err != nil {
		t.Fatalf("project energy: %v", err)
	}
	if proj.DestinationSocPercent != 0 {
		t.Fatalf("expected clamp to 0, got %d", proj.DestinationSocPercent)
	}
}

func TestProjectEnergyValidation(t *testing.T) {
	if _, err := ProjectEnergy(nil, 80, 0, 17, 100); err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if _, err := ProjectEnergy(nil, 80, 60, 0, 100); err == nil {
		t.Fatal("expected error for zero consumption")
	}
	if _, err := ProjectEnergy(nil, 140, 60, 17, 100); err == nil {
		t.Fatal("expected error for soc out of range")
	}
}

func TestProjectEnergyDoesNotMutateInput(t *testing.T) {
	stops := []ChargeStop{mandatoryStop(230)}
	before := make([]ChargeStop, len(stops))
	copy(before, stops)

	if _, err := ProjectEnergy(stops, 80, 60, 17, 500); err != nil {
		t.Fatalf("project energy: %v", err)
	}
	if !reflect.DeepEqual(stops, before) {
		t.Fatal("input slice was mutated")
	}
}

func TestConsumptionFor(t *testing.T) {
	cases := map[Terrain]float64{
		TerrainFlat:     15,
		TerrainModerate: 17,
		TerrainMountain: 21,
	}
	for terrain, want := range cases {
		got, err := ConsumptionFor(terrain)
		if err != nil {
			t.Fatalf("%s: %v", terrain, err)
		}
		if got != want {
			t.Fatalf("%s = %f, want %f", terrain, got, want)
		}
	}
	if _, err := ConsumptionFor("desert"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}
