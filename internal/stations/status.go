package stations

import "strings"

// Status is the canonical availability class of a charging unit or
// connector, reconciled from the heterogeneous status strings the
// upstream providers emit.
type Status string

const (
	// StatusAvailable means the unit is free and ready to charge.
	StatusAvailable Status = "AVAILABLE"
	// StatusInUse means a vehicle is currently charging or finishing.
	StatusInUse Status = "IN_USE"
	// StatusNoData means the provider has no live telemetry for the
	// unit. Distinct from a known-bad state: the charger may be fine.
	StatusNoData Status = "NO_DATA"
	// StatusOtherUnavailable covers reserved, out-of-order, blocked,
	// planned, removed and anything else that is not usable right now.
	StatusOtherUnavailable Status = "OTHER_UNAVAILABLE"
)

// ClassifyStatus maps a raw provider status string onto the canonical
// vocabulary. The raw label is preserved by callers for display so
// unknown strings stay visible instead of being silently dropped.
func ClassifyStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "AVAILABLE", "DISPONIBLE":
		return StatusAvailable
	case "CHARGING", "FINISHING", "OCCUPIED", "OCUPADO", "CARGANDO", "EN USO":
		return StatusInUse
	case "", "NO DISPONIBLE", "UNKNOWN", "DESCONOCIDO", "NO DATA", "SIN INFORMACION":
		// Providers use these as "no telemetry" sentinels, not as a
		// statement that the charger is broken.
		return StatusNoData
	default:
		return StatusOtherUnavailable
	}
}
