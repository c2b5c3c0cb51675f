package stations

import (
	"sort"
	"time"

	"electrochile/internal/geo"
)

// Standard is a canonical connector standard label.
type Standard string

const (
	StandardType1   Standard = "TYPE_1"
	StandardType2   Standard = "TYPE_2"
	StandardCCS     Standard = "CCS"
	StandardCHAdeMO Standard = "CHADEMO"
	StandardUnknown Standard = "UNKNOWN"
)

// PowerType distinguishes AC and DC charging.
type PowerType string

const (
	PowerAC      PowerType = "AC"
	PowerDC      PowerType = "DC"
	PowerUnknown PowerType = "UNKNOWN"
)

// Connector is one physical plug on a station.
type Connector struct {
	Standard    Standard  `json:"standard"`
	PowerType   PowerType `json:"power_type"`
	MaxPowerKW  float64   `json:"max_power_kw"`
	Status      Status    `json:"status"`
	StatusLabel string    `json:"status_label,omitempty"`
	Quantity    int       `json:"quantity,omitempty"`
	Format      string    `json:"format,omitempty"`
}

// Availability aggregates per-unit status counts for a station.
// AvailableCount + InUseCount + NoDataCount + OtherCount == EVSECount.
type Availability struct {
	EVSECount      int  `json:"evse_count"`
	AvailableCount int  `json:"available_count"`
	InUseCount     int  `json:"in_use_count"`
	NoDataCount    int  `json:"no_data_count"`
	OtherCount     int  `json:"other_count"`
	HasAvailable   bool `json:"has_available"`
	HasInUse       bool `json:"has_in_use"`
	AllNoData      bool `json:"all_no_data"`
}

func (a *Availability) add(s Status) {
	a.EVSECount++
	switch s {
	case StatusAvailable:
		a.AvailableCount++
	case StatusInUse:
		a.InUseCount++
	case StatusNoData:
		a.NoDataCount++
	default:
		a.OtherCount++
	}
	a.HasAvailable = a.AvailableCount > 0
	a.HasInUse = a.InUseCount > 0
	a.AllNoData = a.EVSECount > 0 && a.NoDataCount == a.EVSECount
}

// Station is a physical charging location in the normalized model.
type Station struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Address  string     `json:"address,omitempty"`
	Commune  string     `json:"commune,omitempty"`
	Region   string     `json:"region,omitempty"`
	Location *geo.Point `json:"location,omitempty"`

	Operator        string `json:"operator,omitempty"`
	TwentyFourSeven bool   `json:"open_24_7,omitempty"`
	// Nil when the source carries no timestamp; a zero time.Time would
	// serialize as year 1.
	LastUpdated *time.Time `json:"last_updated,omitempty"`

	Connectors []Connector `json:"connectors"`

	// Derived from Connectors, recomputed by SetConnectors.
	Standards  []Standard  `json:"standards"`
	PowerTypes []PowerType `json:"power_types"`
	MaxPowerKW float64     `json:"max_power_kw"`

	Availability

	// DistanceKm is transient: set by location-based queries, not part
	// of station identity.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// HasCoordinates reports whether the station carries a usable
// geocoordinate. Stations without one are excluded from matching and
// map rendering but stay in the catalog.
func (s *Station) HasCoordinates() bool {
	return s.Location != nil
}

// SetConnectors replaces the connector list and recomputes the
// connector-derived aggregates. Insertion order is preserved.
func (s *Station) SetConnectors(conns []Connector) {
	s.Connectors = conns
	s.Standards = s.Standards[:0]
	s.PowerTypes = s.PowerTypes[:0]
	s.MaxPowerKW = 0

	seenStd := make(map[Standard]bool, 4)
	seenPower := make(map[PowerType]bool, 2)
	for _, c := range conns {
		if !seenStd[c.Standard] {
			seenStd[c.Standard] = true
			s.Standards = append(s.Standards, c.Standard)
		}
		if !seenPower[c.PowerType] {
			seenPower[c.PowerType] = true
			s.PowerTypes = append(s.PowerTypes, c.PowerType)
		}
		if c.MaxPowerKW > s.MaxPowerKW {
			s.MaxPowerKW = c.MaxPowerKW
		}
	}
	if s.Standards == nil {
		s.Standards = []Standard{}
	}
	if s.PowerTypes == nil {
		s.PowerTypes = []PowerType{}
	}
}

// HasStandard reports whether any connector matches the given standard.
func (s *Station) HasStandard(std Standard) bool {
	for _, have := range s.Standards {
		if have == std {
			return true
		}
	}
	return false
}

// HasPowerType reports whether any connector matches the given power type.
func (s *Station) HasPowerType(p PowerType) bool {
	for _, have := range s.PowerTypes {
		if have == p {
			return true
		}
	}
	return false
}

// HasDC reports whether the station offers DC fast charging.
func (s *Station) HasDC() bool {
	return s.HasPowerType(PowerDC)
}

// SortByDistanceFrom sets each station's transient DistanceKm relative
// to the reference point and returns a new slice sorted ascending.
// Stations without coordinates sort last.
func SortByDistanceFrom(sts []Station, ref geo.Point) []Station {
	out := make([]Station, len(sts))
	copy(out, sts)
	for i := range out {
		if out[i].Location == nil {
			out[i].DistanceKm = nil
			continue
		}
		d := geo.DistanceKm(ref, *out[i].Location)
		out[i].DistanceKm = &d
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DistanceKm, out[j].DistanceKm
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})
	return out
}
