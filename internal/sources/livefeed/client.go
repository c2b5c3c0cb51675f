// Package livefeed consumes the secondary real-time push stream of
// station/socket telemetry over a WebSocket connection.
package livefeed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"electrochile/internal/stations"
)

const (
	readLimit     = 1 << 20
	readDeadline  = 90 * time.Second
	dialTimeout   = 10 * time.Second
	reconnectWait = 5 * time.Second
)

// SnapshotHandler receives each complete batch of raw station rows.
type SnapshotHandler func(raws []stations.RawLocation)

// Client maintains the feed connection and decodes snapshot messages.
type Client struct {
	url     string
	handler SnapshotHandler
	logger  *zap.Logger
}

// NewClient builds a feed client.
func NewClient(url string, handler SnapshotHandler, logger *zap.Logger) *Client {
	return &Client{url: url, handler: handler, logger: logger}
}

type feedMessage struct {
	Type     string       `json:"type"`
	Stations []stationRow `json:"stations"`
}

type stationRow struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Address   string      `json:"address"`
	Commune   string      `json:"commune"`
	Latitude  *float64    `json:"lat"`
	Longitude *float64    `json:"lng"`
	UpdatedAt string      `json:"updated_at"`
	Sockets   []socketRow `json:"sockets"`
}

type socketRow struct {
	Status     string `json:"status"`
	Connectors []struct {
		Standard  string  `json:"standard"`
		PowerType string  `json:"power_type"`
		PowerKW   float64 `json:"power_kw"`
		Status    string  `json:"status"`
	} `json:"connectors"`
}

// Run connects and reads until the context is cancelled, reconnecting
// with a fixed backoff after read or dial failures.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.readLoop(ctx); err != nil && ctx.Err() == nil {
			c.logger.Warn("live feed disconnected", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectWait):
		}
	}
}

func (c *Client) readLoop(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// The watcher must not outlive this connection: readLoop runs once
	// per reconnect attempt.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	c.logger.Info("live feed connected", zap.String("url", c.url))
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))

		var msg feedMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Warn("live feed message discarded", zap.Error(err))
			continue
		}
		if len(msg.Stations) == 0 {
			continue
		}

		raws := make([]stations.RawLocation, 0, len(msg.Stations))
		for _, row := range msg.Stations {
			raws = append(raws, toRaw(row))
		}
		c.handler(raws)
	}
}

func toRaw(row stationRow) stations.RawLocation {
	raw := stations.RawLocation{
		ID:        row.ID,
		Name:      row.Name,
		Address:   row.Address,
		Commune:   row.Commune,
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
	}
	if ts, err := time.Parse(time.RFC3339, row.UpdatedAt); err == nil {
		raw.LastUpdated = ts
	}
	for _, sock := range row.Sockets {
		rawEVSE := stations.RawEVSE{Status: sock.Status}
		for _, conn := range sock.Connectors {
			rawEVSE.Connectors = append(rawEVSE.Connectors, stations.RawConnector{
				Standard:   conn.Standard,
				PowerType:  conn.PowerType,
				MaxPowerKW: conn.PowerKW,
				Status:     conn.Status,
			})
		}
		raw.EVSEs = append(raw.EVSEs, rawEVSE)
	}
	return raw
}
