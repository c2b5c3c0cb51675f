package stations

import (
	"strings"
	"time"

	"electrochile/internal/geo"
)

// RawLocation is the source-agnostic provider record handed to
// Normalize. Each source client maps its own wire format onto this
// shape; the paginated listing delivers an EVSE/connector hierarchy,
// the real-time feed delivers socket rows converted one-to-one.
type RawLocation struct {
	ID              string
	Name            string
	Address         string
	Commune         string
	Region          string
	Latitude        *float64
	Longitude       *float64
	Operator        string
	TwentyFourSeven bool
	LastUpdated     time.Time
	EVSEs           []RawEVSE
}

// RawEVSE is one charging unit as reported upstream.
type RawEVSE struct {
	Status     string
	Connectors []RawConnector
}

// RawConnector is one plug as reported upstream. Connector-level status
// is known to be stale in provider data; the unit status wins when the
// two conflict.
type RawConnector struct {
	Standard   string
	PowerType  string
	MaxPowerKW float64
	Status     string
	Quantity   int
	Format     string
}

// Normalize converts one raw provider record into a Station. It is a
// pure function: the same record always yields the same Station, and it
// never fails. A record without coordinates yields a station that
// HasCoordinates reports false for; downstream consumers skip it.
func Normalize(raw RawLocation) Station {
	st := Station{
		ID:              raw.ID,
		Name:            raw.Name,
		Address:         raw.Address,
		Commune:         raw.Commune,
		Region:          raw.Region,
		Operator:        raw.Operator,
		TwentyFourSeven: raw.TwentyFourSeven,
	}
	if !raw.LastUpdated.IsZero() {
		ts := raw.LastUpdated
		st.LastUpdated = &ts
	}
	if raw.Latitude != nil && raw.Longitude != nil {
		st.Location = &geo.Point{Lat: *raw.Latitude, Lng: *raw.Longitude}
	}

	var conns []Connector
	for _, evse := range raw.EVSEs {
		unitStatus, unitLabel := resolveUnitStatus(evse)
		st.Availability.add(unitStatus)

		for _, rc := range evse.Connectors {
			conn := normalizeConnector(rc)
			// Unit status is authoritative over connector status
			// whenever the unit actually reports one.
			if ClassifyStatus(evse.Status) != StatusNoData {
				conn.Status = unitStatus
				conn.StatusLabel = unitLabel
			}
			conns = append(conns, conn)
		}
	}
	if conns == nil {
		conns = []Connector{}
	}
	st.SetConnectors(conns)
	return st
}

// resolveUnitStatus classifies one EVSE. When the unit itself reports
// no telemetry, its connectors' statuses are inspected as a fallback:
// upstream unit-level status is sometimes blank even when connector
// telemetry exists.
func resolveUnitStatus(evse RawEVSE) (Status, string) {
	class := ClassifyStatus(evse.Status)
	if class != StatusNoData {
		return class, strings.TrimSpace(evse.Status)
	}

	anyInUse := false
	inUseLabel := ""
	for _, rc := range evse.Connectors {
		switch ClassifyStatus(rc.Status) {
		case StatusAvailable:
			return StatusAvailable, strings.TrimSpace(rc.Status)
		case StatusInUse:
			anyInUse = true
			inUseLabel = strings.TrimSpace(rc.Status)
		}
	}
	if anyInUse {
		return StatusInUse, inUseLabel
	}
	return StatusNoData, strings.TrimSpace(evse.Status)
}

func normalizeConnector(rc RawConnector) Connector {
	return Connector{
		Standard:    ParseStandard(rc.Standard),
		PowerType:   ParsePowerType(rc.PowerType),
		MaxPowerKW:  rc.MaxPowerKW,
		Status:      ClassifyStatus(rc.Status),
		StatusLabel: strings.TrimSpace(rc.Status),
		Quantity:    rc.Quantity,
		Format:      rc.Format,
	}
}

// ParseStandard maps provider connector-standard labels onto the known
// vocabulary. Unrecognized labels collapse to StandardUnknown.
func ParseStandard(raw string) Standard {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "IEC_62196_T1", "TYPE 1", "TYPE_1", "TIPO 1", "J1772", "SAE J1772":
		return StandardType1
	case "IEC_62196_T2", "TYPE 2", "TYPE_2", "TIPO 2", "MENNEKES":
		return StandardType2
	case "IEC_62196_T2_COMBO", "IEC_62196_T1_COMBO", "CCS", "CCS1", "CCS2", "COMBO", "COMBO CCS":
		return StandardCCS
	case "CHADEMO":
		return StandardCHAdeMO
	default:
		return StandardUnknown
	}
}

// ParsePowerType maps provider current-type labels onto AC/DC.
func ParsePowerType(raw string) PowerType {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case upper == "DC":
		return PowerDC
	case strings.HasPrefix(upper, "AC"):
		return PowerAC
	default:
		return PowerUnknown
	}
}
