package planner

import (
	"sort"

	"electrochile/internal/geo"
	"electrochile/internal/stations"
)

const (
	// DefaultCorridorKm is the default half-width of the search band
	// around a route.
	DefaultCorridorKm = 5

	// sampleSpacingKm bounds the matching cost independent of the raw
	// vertex density returned by the directions service.
	sampleSpacingKm = 2
)

// RouteMatch associates a station with a planned route: how far off the
// route it sits and where along the route its closest point occurs.
type RouteMatch struct {
	Station    stations.Station `json:"station"`
	DistanceKm float64          `json:"distance_km"`
	RouteKm    float64          `json:"route_km"`
	IsDC       bool             `json:"is_dc"`
}

type routeSample struct {
	point geo.Point
	cumKm float64
}

// MatchAlongRoute finds every station with valid coordinates lying
// within corridorKm of the route polyline and returns the matches
// sorted ascending by km along the route. Brute-force station-to-sample
// distance: O(stations x samples), fine at a few thousand stations and
// a few hundred samples per route.
func MatchAlongRoute(sts []stations.Station, route []geo.Point, corridorKm float64) []RouteMatch {
	if corridorKm <= 0 {
		corridorKm = DefaultCorridorKm
	}
	samples := resample(route)
	if len(samples) == 0 {
		return nil
	}

	matches := make([]RouteMatch, 0)
	for _, st := range sts {
		if !st.HasCoordinates() {
			continue
		}
		minDist := -1.0
		routeKm := 0.0
		for _, s := range samples {
			d := geo.DistanceKm(*st.Location, s.point)
			if minDist < 0 || d < minDist {
				minDist = d
				routeKm = s.cumKm
			}
		}
		if minDist <= corridorKm {
			matches = append(matches, RouteMatch{
				Station:    st,
				DistanceKm: minDist,
				RouteKm:    routeKm,
				IsDC:       st.HasDC(),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RouteKm < matches[j].RouteKm
	})
	return matches
}

// resample walks the polyline and emits a sparse sample sequence spaced
// at least sampleSpacingKm apart, each tagged with its cumulative
// distance from the route origin.
func resample(route []geo.Point) []routeSample {
	if len(route) == 0 {
		return nil
	}
	samples := []routeSample{{point: route[0], cumKm: 0}}
	cum := 0.0
	sinceLast := 0.0
	for i := 1; i < len(route); i++ {
		leg := geo.DistanceKm(route[i-1], route[i])
		cum += leg
		sinceLast += leg
		if sinceLast >= sampleSpacingKm {
			samples = append(samples, routeSample{point: route[i], cumKm: cum})
			sinceLast = 0
		}
	}
	return samples
}
