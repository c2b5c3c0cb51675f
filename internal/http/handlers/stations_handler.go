package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"electrochile/internal/geo"
	"electrochile/internal/service"
	"electrochile/internal/stations"
)

type stationsResponse struct {
	Count    int                `json:"count"`
	Stations []stations.Station `json:"stations"`
}

// NewStationsHandler serves the filtered station catalog. Query
// parameters: connectors (comma-separated standards), power
// (comma-separated AC/DC), status (all | available-only | in-use-only |
// unavailable-only), lat/lng (sort by distance from a reference point).
func NewStationsHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		query := stations.Query{Status: stations.StatusModeAll}
		if raw := strings.TrimSpace(params.Get("status")); raw != "" {
			mode, ok := parseStatusMode(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown status mode "+raw)
				return
			}
			query.Status = mode
		}
		for _, part := range splitList(params.Get("connectors")) {
			query.Standards = append(query.Standards, stations.ParseStandard(part))
		}
		for _, part := range splitList(params.Get("power")) {
			query.PowerTypes = append(query.PowerTypes, stations.ParsePowerType(part))
		}

		result := stations.Filter(catalog.Stations(), query)

		if ref, ok := parsePoint(params.Get("lat"), params.Get("lng")); ok {
			result = stations.SortByDistanceFrom(result, ref)
		}

		writeJSON(w, http.StatusOK, stationsResponse{Count: len(result), Stations: result})
	}
}

func parseStatusMode(raw string) (stations.StatusMode, bool) {
	switch stations.StatusMode(raw) {
	case stations.StatusModeAll, stations.StatusModeAvailableOnly, stations.StatusModeInUseOnly, stations.StatusModeUnavailable:
		return stations.StatusMode(raw), true
	default:
		return "", false
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parsePoint(latRaw, lngRaw string) (geo.Point, bool) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if errLat != nil || errLng != nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: lat, Lng: lng}, true
}
