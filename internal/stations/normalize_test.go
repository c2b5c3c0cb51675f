package stations

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func sampleRaw() RawLocation {
	return RawLocation{
		ID:        "cl-001",
		Name:      "Copec Ruta 5 Sur",
		Commune:   "Rancagua",
		Region:    "O'Higgins",
		Latitude:  floatPtr(-34.17),
		Longitude: floatPtr(-70.74),
		EVSEs: []RawEVSE{
			{
				Status: "AVAILABLE",
				Connectors: []RawConnector{
					{Standard: "IEC_62196_T2_COMBO", PowerType: "DC", MaxPowerKW: 150},
				},
			},
			{
				Status: "CHARGING",
				Connectors: []RawConnector{
					{Standard: "IEC_62196_T2", PowerType: "AC_3_PHASE", MaxPowerKW: 22},
				},
			},
			{
				Status: "RESERVED",
				Connectors: []RawConnector{
					{Standard: "CHADEMO", PowerType: "DC", MaxPowerKW: 50},
				},
			},
		},
	}
}

func TestNormalizeAggregates(t *testing.T) {
	st := Normalize(sampleRaw())

	if st.EVSECount != 3 {
		t.Fatalf("expected 3 EVSEs, got %d", st.EVSECount)
	}
	if st.AvailableCount != 1 || st.InUseCount != 1 || st.OtherCount != 1 || st.NoDataCount != 0 {
		t.Fatalf("unexpected counts: %+v", st.Availability)
	}
	if sum := st.AvailableCount + st.InUseCount + st.NoDataCount + st.OtherCount; sum != st.EVSECount {
		t.Fatalf("count invariant broken: sum %d, evse %d", sum, st.EVSECount)
	}
	if !st.HasAvailable || !st.HasInUse || st.AllNoData {
		t.Fatalf("unexpected flags: %+v", st.Availability)
	}
	if st.MaxPowerKW != 150 {
		t.Fatalf("expected max power 150, got %f", st.MaxPowerKW)
	}
	wantStandards := []Standard{StandardCCS, StandardType2, StandardCHAdeMO}
	if !reflect.DeepEqual(st.Standards, wantStandards) {
		t.Fatalf("standards = %v, want %v", st.Standards, wantStandards)
	}
	wantPower := []PowerType{PowerDC, PowerAC}
	if !reflect.DeepEqual(st.PowerTypes, wantPower) {
		t.Fatalf("power types = %v, want %v", st.PowerTypes, wantPower)
	}
}

func TestNormalizeIsPure(t *testing.T) {
	raw := sampleRaw()
	first := Normalize(raw)
	second := Normalize(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalizing the same record twice diverged:\n%+v\n%+v", first, second)
	}
}

func TestNormalizeUnitStatusWinsOverConnector(t *testing.T) {
	raw := RawLocation{
		ID: "cl-002",
		EVSEs: []RawEVSE{
			{
				Status: "CHARGING",
				Connectors: []RawConnector{
					// Stale connector status contradicts the unit.
					{Standard: "IEC_62196_T2", PowerType: "AC", Status: "AVAILABLE"},
				},
			},
		},
	}

	st := Normalize(raw)
	if st.InUseCount != 1 || st.AvailableCount != 0 {
		t.Fatalf("unit status should win: %+v", st.Availability)
	}
	if st.Connectors[0].Status != StatusInUse {
		t.Fatalf("connector status = %s, want %s", st.Connectors[0].Status, StatusInUse)
	}
}

func TestNormalizeNoDataFallsBackToConnectors(t *testing.T) {
	raw := RawLocation{
		ID: "cl-003",
		EVSEs: []RawEVSE{
			{
				Status: "",
				Connectors: []RawConnector{
					{Standard: "CHADEMO", PowerType: "DC", Status: "OCUPADO"},
					{Standard: "IEC_62196_T2_COMBO", PowerType: "DC", Status: "DISPONIBLE"},
				},
			},
			{
				Status: "NO DISPONIBLE",
				Connectors: []RawConnector{
					{Standard: "IEC_62196_T2", PowerType: "AC", Status: ""},
				},
			},
		},
	}

	st := Normalize(raw)
	// First unit: a connector is available, so the unit counts available.
	if st.AvailableCount != 1 {
		t.Fatalf("expected 1 available via connector fallback, got %d", st.AvailableCount)
	}
	// Second unit: nothing known anywhere, stays no-data.
	if st.NoDataCount != 1 {
		t.Fatalf("expected 1 no-data, got %d", st.NoDataCount)
	}
}

func TestNormalizeMissingCoordinates(t *testing.T) {
	raw := sampleRaw()
	raw.Longitude = nil

	st := Normalize(raw)
	if st.HasCoordinates() {
		t.Fatal("station without longitude must not report coordinates")
	}
	// Still a valid station otherwise.
	if st.EVSECount != 3 {
		t.Fatalf("availability should still be derived, got %+v", st.Availability)
	}
}

func TestNormalizeEVSEWithoutConnectors(t *testing.T) {
	raw := RawLocation{
		ID:        "cl-004",
		Latitude:  floatPtr(-33.45),
		Longitude: floatPtr(-70.65),
		EVSEs:     []RawEVSE{{Status: "AVAILABLE"}},
	}

	st := Normalize(raw)
	if st.AvailableCount != 1 || !st.HasAvailable {
		t.Fatalf("expected available unit, got %+v", st.Availability)
	}
	if len(st.Connectors) != 0 {
		t.Fatalf("expected no connectors, got %d", len(st.Connectors))
	}

	// Passes an available-only status filter.
	filtered := Filter([]Station{st}, Query{Status: StatusModeAvailableOnly})
	if len(filtered) != 1 {
		t.Fatal("station should pass available-only filter")
	}
	// With zero connectors there is nothing to exclude it on, so a
	// connector-standard allow-list still lets it through.
	filtered = Filter([]Station{st}, Query{Standards: []Standard{StandardCCS}})
	if len(filtered) != 1 {
		t.Fatal("zero-connector station should pass connector predicates")
	}
}

func TestNormalizeLastUpdatedOptional(t *testing.T) {
	st := Normalize(RawLocation{ID: "cl-006"})
	if st.LastUpdated != nil {
		t.Fatalf("missing source timestamp should stay unset, got %v", st.LastUpdated)
	}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "last_updated") {
		t.Fatalf("unset timestamp must be omitted from JSON: %s", data)
	}

	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	st = Normalize(RawLocation{ID: "cl-006", LastUpdated: ts})
	if st.LastUpdated == nil || !st.LastUpdated.Equal(ts) {
		t.Fatalf("source timestamp lost: %v", st.LastUpdated)
	}
}

func TestNormalizeKeepsUnknownStatusLabel(t *testing.T) {
	raw := RawLocation{
		ID: "cl-005",
		EVSEs: []RawEVSE{
			{
				Status: "FUERA DE SERVICIO",
				Connectors: []RawConnector{
					{Standard: "IEC_62196_T2", PowerType: "AC"},
				},
			},
		},
	}

	st := Normalize(raw)
	if st.OtherCount != 1 {
		t.Fatalf("unknown status should classify other-unavailable, got %+v", st.Availability)
	}
	if st.Connectors[0].StatusLabel != "FUERA DE SERVICIO" {
		t.Fatalf("raw label lost: %q", st.Connectors[0].StatusLabel)
	}
}
