package stations

// StatusMode selects which availability classes a filter admits.
// Modes are mutually exclusive.
type StatusMode string

const (
	StatusModeAll           StatusMode = "all"
	StatusModeAvailableOnly StatusMode = "available-only"
	StatusModeInUseOnly     StatusMode = "in-use-only"
	StatusModeUnavailable   StatusMode = "unavailable-only"
)

// Query is a predicate set for filtering the normalized station
// collection. Empty allow-lists mean "no restriction".
type Query struct {
	Standards  []Standard
	PowerTypes []PowerType
	Status     StatusMode
}

// Filter returns the stations matching the query, preserving input
// order. A station with zero connectors always passes the connector and
// power-type predicates: there is nothing to exclude it on.
func Filter(sts []Station, q Query) []Station {
	out := make([]Station, 0, len(sts))
	for _, st := range sts {
		if !matchesConnectors(&st, q.Standards) {
			continue
		}
		if !matchesPowerTypes(&st, q.PowerTypes) {
			continue
		}
		if !matchesStatus(&st, q.Status) {
			continue
		}
		out = append(out, st)
	}
	return out
}

func matchesConnectors(st *Station, allow []Standard) bool {
	if len(allow) == 0 || len(st.Connectors) == 0 {
		return true
	}
	for _, std := range allow {
		if st.HasStandard(std) {
			return true
		}
	}
	return false
}

func matchesPowerTypes(st *Station, allow []PowerType) bool {
	if len(allow) == 0 || len(st.Connectors) == 0 {
		return true
	}
	for _, p := range allow {
		if st.HasPowerType(p) {
			return true
		}
	}
	return false
}

func matchesStatus(st *Station, mode StatusMode) bool {
	switch mode {
	case StatusModeAvailableOnly:
		return st.HasAvailable
	case StatusModeInUseOnly:
		return st.HasInUse
	case StatusModeUnavailable:
		return st.EVSECount > 0 && !st.HasAvailable
	default:
		return true
	}
}
