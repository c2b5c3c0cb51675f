package planner

import (
	"math"
	"sort"
)

const (
	// usableRangeFactor reserves a safety margin: plans never rely on
	// the full estimated range.
	usableRangeFactor = 0.8

	// minProgressKm guards against degenerate back-to-back stops.
	minProgressKm = 20

	// windowOverrunKm lets the candidate window reach slightly past the
	// range target.
	windowOverrunKm = 10

	// optionalStopLimit caps the suggested stops on trips that already
	// fit within usable range.
	optionalStopLimit = 3

	scoreNoDCPenalty        = 100
	scoreNoAvailablePenalty = 50
	scoreDetourWeight       = 5
	scoreTargetBias         = 0.7
	scoreTargetWeight       = 0.5
)

// ChargeStop is a route match selected for a plan. ArrivalSocPercent is
// filled in by the energy projector after selection.
type ChargeStop struct {
	RouteMatch
	IsOptional        bool `json:"is_optional"`
	ArrivalSocPercent int  `json:"arrival_soc_percent"`
}

// SelectStops picks an ordered sequence of charging stops for a trip of
// totalKm given matches sorted by route position and a full-battery
// range estimate. The walk is intentionally greedy and local, not
// globally optimal: charger availability changes faster than any
// precomputed optimum would stay valid. When no candidate exists within
// the widened window the partial plan is returned as-is; the caller
// surfaces it as "route may not be fully coverable".
func SelectStops(matches []RouteMatch, rangeKm, totalKm float64) []ChargeStop {
	usable := rangeKm * usableRangeFactor
	if totalKm <= usable {
		return optionalStops(matches, totalKm)
	}

	stops := make([]ChargeStop, 0, 4)
	current := 0.0
	for current+usable < totalKm {
		target := current + usable
		pool := window(matches, current+minProgressKm, target+windowOverrunKm)
		if len(pool) == 0 {
			pool = window(matches, current+windowOverrunKm, math.Inf(1))
		}
		if len(pool) == 0 {
			break
		}
		best := pool[0]
		bestScore := stopScore(best, current, usable)
		for _, m := range pool[1:] {
			if s := stopScore(m, current, usable); s < bestScore {
				best = m
				bestScore = s
			}
		}
		stops = append(stops, ChargeStop{RouteMatch: best})
		current = best.RouteKm
	}
	return stops
}

// optionalStops suggests up to three DC, currently-available stations
// near the route midpoint for trips that fit within usable range.
func optionalStops(matches []RouteMatch, totalKm float64) []ChargeStop {
	mid := totalKm / 2
	candidates := make([]RouteMatch, 0)
	for _, m := range matches {
		if m.IsDC && m.Station.HasAvailable {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].RouteKm-mid) < math.Abs(candidates[j].RouteKm-mid)
	})
	if len(candidates) > optionalStopLimit {
		candidates = candidates[:optionalStopLimit]
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RouteKm < candidates[j].RouteKm
	})

	stops := make([]ChargeStop, 0, len(candidates))
	for _, m := range candidates {
		stops = append(stops, ChargeStop{RouteMatch: m, IsOptional: true})
	}
	return stops
}

// window returns matches with route position in (afterKm, untilKm].
func window(matches []RouteMatch, afterKm, untilKm float64) []RouteMatch {
	out := make([]RouteMatch, 0)
	for _, m := range matches {
		if m.RouteKm > afterKm && m.RouteKm <= untilKm {
			out = append(out, m)
		}
	}
	return out
}

// stopScore ranks a candidate; lower is better. Fast and available
// chargers win, small detours win, and positions a bit before the
// usable-range limit win over squeezing out the last kilometers.
func stopScore(m RouteMatch, currentKm, usableKm float64) float64 {
	score := 0.0
	if !m.IsDC {
		score += scoreNoDCPenalty
	}
	if !m.Station.HasAvailable {
		score += scoreNoAvailablePenalty
	}
	score += scoreDetourWeight * m.DistanceKm
	ideal := currentKm + scoreTargetBias*usableKm
	score += scoreTargetWeight * math.Abs(m.RouteKm-ideal)
	return score
}
