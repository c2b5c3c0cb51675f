package planner

import (
	"math"
	"testing"

	"electrochile/internal/geo"
	"electrochile/internal/stations"
)

// southboundRoute builds a polyline running due south along a fixed
// longitude, with vertices roughly every 1.1 km.
func southboundRoute(fromLat, toLat, lng float64) []geo.Point {
	points := make([]geo.Point, 0)
	for lat := fromLat; lat >= toLat; lat -= 0.01 {
		points = append(points, geo.Point{Lat: lat, Lng: lng})
	}
	return points
}

func stationAt(id string, lat, lng float64, dc bool) stations.Station {
	st := stations.Station{ID: id, Location: &geo.Point{Lat: lat, Lng: lng}}
	power := stations.PowerAC
	if dc {
		power = stations.PowerDC
	}
	st.SetConnectors([]stations.Connector{{Standard: stations.StandardCCS, PowerType: power}})
	return st
}

func TestMatchAlongRouteCorridorBound(t *testing.T) {
	route := southboundRoute(-33.0, -34.0, -70.65)
	sts := []stations.Station{
		stationAt("on-route", -33.5, -70.65, true),
		stationAt("near", -33.5, -70.68, false),   // ~3 km west
		stationAt("far", -33.5, -70.10, true),     // ~50 km east
		stationAt("no-coords", 0, 0, true),
	}
	sts[3].Location = nil

	matches := MatchAlongRoute(sts, route, 5)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.DistanceKm > 5 {
			t.Fatalf("match %s exceeds corridor: %.2f km", m.Station.ID, m.DistanceKm)
		}
	}
}

func TestMatchAlongRoutePositionsAndOrder(t *testing.T) {
	route := southboundRoute(-33.0, -34.0, -70.65)
	sts := []stations.Station{
		stationAt("south", -33.9, -70.65, true),
		stationAt("north", -33.2, -70.65, false),
	}

	matches := MatchAlongRoute(sts, route, 5)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Station.ID != "north" || matches[1].Station.ID != "south" {
		t.Fatalf("matches not sorted by route position: %s, %s", matches[0].Station.ID, matches[1].Station.ID)
	}

	// 0.2 degrees of latitude is ~22 km along the route.
	if math.Abs(matches[0].RouteKm-22) > 3 {
		t.Fatalf("north position ~22 km expected, got %.1f", matches[0].RouteKm)
	}
	if math.Abs(matches[1].RouteKm-100) > 4 {
		t.Fatalf("south position ~100 km expected, got %.1f", matches[1].RouteKm)
	}
}

func TestMatchAlongRouteDCFlag(t *testing.T) {
	route := southboundRoute(-33.0, -33.5, -70.65)
	matches := MatchAlongRoute([]stations.Station{
		stationAt("dc", -33.2, -70.65, true),
		stationAt("ac", -33.3, -70.65, false),
	}, route, 5)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if !matches[0].IsDC || matches[1].IsDC {
		t.Fatalf("DC flags wrong: %v %v", matches[0].IsDC, matches[1].IsDC)
	}
}

func TestMatchAlongRouteEmptyRoute(t *testing.T) {
	if got := MatchAlongRoute([]stations.Station{stationAt("a", -33, -70, true)}, nil, 5); got != nil {
		t.Fatalf("expected nil for empty route, got %v", got)
	}
}

func TestMatchAlongRouteDefaultCorridor(t *testing.T) {
	route := southboundRoute(-33.0, -33.5, -70.65)
	// ~4 km off-route: inside the 5 km default.
	matches := MatchAlongRoute([]stations.Station{stationAt("a", -33.2, -70.693, true)}, route, 0)
	if len(matches) != 1 {
		t.Fatalf("expected default corridor to admit station, got %d matches", len(matches))
	}
}
