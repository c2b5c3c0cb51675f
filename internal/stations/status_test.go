package stations

import "testing"

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"AVAILABLE", StatusAvailable},
		{"Disponible", StatusAvailable},
		{"CHARGING", StatusInUse},
		{"FINISHING", StatusInUse},
		{"OCCUPIED", StatusInUse},
		{"ocupado", StatusInUse},
		{"", StatusNoData},
		{"NO DISPONIBLE", StatusNoData},
		{"UNKNOWN", StatusNoData},
		{"RESERVED", StatusOtherUnavailable},
		{"OUTOFORDER", StatusOtherUnavailable},
		{"BLOCKED", StatusOtherUnavailable},
		{"  available  ", StatusAvailable},
	}

	for _, tc := range cases {
		if got := ClassifyStatus(tc.raw); got != tc.want {
			t.Errorf("ClassifyStatus(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
