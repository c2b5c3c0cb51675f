package stations

import "electrochile/internal/geo"

// ProximityDedupMeters is the distance under which two stations from
// different sources are considered the same physical location.
const ProximityDedupMeters = 80

// Merge folds stations from a secondary source into a base set. An
// incoming station within ProximityDedupMeters of a base station is
// treated as the same location: the base keeps its identity fields and
// adopts the incoming connector/availability data when the incoming
// record carries live telemetry. Incoming stations with no nearby base
// match are appended. The base slice is not mutated.
func Merge(base, incoming []Station) []Station {
	out := make([]Station, len(base))
	copy(out, base)

	for _, in := range incoming {
		idx := nearestWithin(out, in, ProximityDedupMeters)
		if idx < 0 {
			out = append(out, in)
			continue
		}
		merged := out[idx]
		if in.EVSECount > 0 && !in.AllNoData {
			merged.SetConnectors(in.Connectors)
			merged.Availability = in.Availability
		}
		if in.LastUpdated != nil {
			merged.LastUpdated = in.LastUpdated
		}
		out[idx] = merged
	}
	return out
}

func nearestWithin(sts []Station, target Station, maxMeters float64) int {
	if target.Location == nil {
		return -1
	}
	best := -1
	bestDist := maxMeters
	for i := range sts {
		if sts[i].Location == nil {
			continue
		}
		d := geo.DistanceMeters(*sts[i].Location, *target.Location)
		if d <= bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
