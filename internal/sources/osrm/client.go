// Package osrm resolves driving routes through an OSRM-compatible
// directions service. The planner treats the returned polyline as
// opaque input; routing itself stays outside the core.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"electrochile/internal/geo"
	"electrochile/internal/planner"
)

const defaultTimeout = 10 * time.Second

// HTTPDoer defines the http.Client interface subset used by the client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client calls the OSRM route endpoint.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// NewClient builds a directions client. A nil doer falls back to a
// default http.Client with a request timeout.
func NewClient(baseURL string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: doer}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// Route fetches the driving route between two points.
func (c *Client) Route(ctx context.Context, origin, dest geo.Point) (*planner.Route, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, origin.Lng, origin.Lat, dest.Lng, dest.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("osrm: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm: unexpected status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("osrm: decode response: %w", err)
	}
	if len(body.Routes) == 0 {
		return nil, errors.New("osrm: no route found")
	}

	best := body.Routes[0]
	points := make([]geo.Point, 0, len(best.Geometry.Coordinates))
	for _, coord := range best.Geometry.Coordinates {
		if len(coord) < 2 {
			continue
		}
		// OSRM returns [lng, lat].
		points = append(points, geo.Point{Lat: coord[1], Lng: coord[0]})
	}

	return &planner.Route{
		Points:         points,
		DistanceMeters: best.Distance,
		DurationSec:    best.Duration,
	}, nil
}
