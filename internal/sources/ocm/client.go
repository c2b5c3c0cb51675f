// Package ocm fetches the Open Charge Map listing of charging points
// for country CL: compact POI payloads carrying address info and a
// connection list with numeric type/level/status ids.
package ocm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"electrochile/internal/stations"
)

const defaultTimeout = 15 * time.Second

// HTTPDoer defines the http.Client interface subset used by the client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client pages through the POI listing.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   HTTPDoer
}

// NewClient builds a registry client. A nil doer falls back to a
// default http.Client with a request timeout.
func NewClient(baseURL, apiKey string, pageSize int, doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: defaultTimeout}
	}
	if pageSize <= 0 {
		pageSize = 200
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		pageSize: pageSize,
		client:   doer,
	}
}

// poi is the compact payload shape: numeric reference ids instead of
// expanded objects.
type poi struct {
	ID                   int          `json:"ID"`
	StatusTypeID         int          `json:"StatusTypeID"`
	DateLastStatusUpdate string       `json:"DateLastStatusUpdate"`
	AddressInfo          addressInfo  `json:"AddressInfo"`
	Connections          []connection `json:"Connections"`
}

type addressInfo struct {
	Title           string   `json:"Title"`
	AddressLine1    string   `json:"AddressLine1"`
	Town            string   `json:"Town"`
	StateOrProvince string   `json:"StateOrProvince"`
	Latitude        *float64 `json:"Latitude"`
	Longitude       *float64 `json:"Longitude"`
}

type connection struct {
	ConnectionTypeID int     `json:"ConnectionTypeID"`
	StatusTypeID     int     `json:"StatusTypeID"`
	LevelID          int     `json:"LevelID"`
	CurrentTypeID    int     `json:"CurrentTypeID"`
	PowerKW          float64 `json:"PowerKW"`
	Quantity         int     `json:"Quantity"`
}

// FetchAll pages through the full listing and returns the consolidated
// raw records. It returns an error rather than a partial slice when any
// page fails: incomplete data must not reach the normalizer.
func (c *Client) FetchAll(ctx context.Context) ([]stations.RawLocation, error) {
	var raws []stations.RawLocation
	for offset := 0; ; offset += c.pageSize {
		pois, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("ocm: offset %d: %w", offset, err)
		}
		for _, p := range pois {
			raws = append(raws, toRaw(p))
		}
		if len(pois) < c.pageSize {
			return raws, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, offset int) ([]poi, error) {
	query := url.Values{}
	query.Set("output", "json")
	query.Set("countrycode", "CL")
	query.Set("compact", "true")
	query.Set("verbose", "false")
	query.Set("maxresults", strconv.Itoa(c.pageSize))
	query.Set("offset", strconv.Itoa(offset))
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/poi?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body []poi
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return body, nil
}

// Connection type ids seen in the Chilean network, mapped onto the
// standard labels the normalizer's vocabulary knows.
var standardByConnectionType = map[int]string{
	1:    "J1772",
	2:    "CHADEMO",
	25:   "TYPE 2",
	32:   "CCS1",
	33:   "CCS2",
	1036: "TYPE 2",
}

// Status type ids mapped onto status labels. Operational (50/75) reads
// as available: the registry publishes mostly-static data and marks
// live telemetry with the 10/20 pair instead. Unlisted ids map to the
// empty string, which classifies as no-data.
var statusByStatusType = map[int]string{
	10:  "AVAILABLE",
	20:  "OCCUPIED",
	30:  "TEMPORARILY UNAVAILABLE",
	50:  "AVAILABLE",
	75:  "AVAILABLE",
	100: "OUT OF ORDER",
	150: "PLANNED",
	200: "REMOVED",
}

// toRaw maps one POI onto the source-agnostic raw model. Each
// connection row becomes one charging unit; a connection without its
// own status inherits the POI-level status.
func toRaw(p poi) stations.RawLocation {
	raw := stations.RawLocation{
		ID:        strconv.Itoa(p.ID),
		Name:      p.AddressInfo.Title,
		Address:   p.AddressInfo.AddressLine1,
		Commune:   p.AddressInfo.Town,
		Region:    p.AddressInfo.StateOrProvince,
		Latitude:  p.AddressInfo.Latitude,
		Longitude: p.AddressInfo.Longitude,
	}
	if ts, err := time.Parse(time.RFC3339, p.DateLastStatusUpdate); err == nil {
		raw.LastUpdated = ts
	}
	for _, conn := range p.Connections {
		statusID := conn.StatusTypeID
		if statusID == 0 {
			statusID = p.StatusTypeID
		}
		raw.EVSEs = append(raw.EVSEs, stations.RawEVSE{
			Status: statusByStatusType[statusID],
			Connectors: []stations.RawConnector{{
				Standard:   standardByConnectionType[conn.ConnectionTypeID],
				PowerType:  powerTypeLabel(conn),
				MaxPowerKW: conn.PowerKW,
				Status:     statusByStatusType[statusID],
				Quantity:   conn.Quantity,
			}},
		})
	}
	return raw
}

// powerTypeLabel resolves AC/DC from the current type when present and
// falls back to the charging level (level 3 is DC fast).
func powerTypeLabel(conn connection) string {
	switch {
	case conn.CurrentTypeID == 30 || conn.LevelID == 3:
		return "DC"
	case conn.CurrentTypeID == 10 || conn.CurrentTypeID == 20 || conn.LevelID == 1 || conn.LevelID == 2:
		return "AC"
	default:
		return ""
	}
}
