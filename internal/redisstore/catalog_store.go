// Package redisstore caches the normalized station catalog in redis so
// restarts and sibling instances warm start without refetching the
// upstream listing.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"electrochile/internal/stations"
)

const (
	snapshotKey = "stations:catalog"

	dialTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
)

// CatalogStore is a redis-backed snapshot cache of the station set. It
// owns its connection.
type CatalogStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Open dials redis, validates the connection with PING and returns the
// store.
func Open(addr, password string, ttl time.Duration) (*CatalogStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redisstore: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redisstore: ping: %w", err)
	}

	return &CatalogStore{client: client, ttl: ttl}, nil
}

// Close releases the connection.
func (s *CatalogStore) Close() error {
	return s.client.Close()
}

// SaveSnapshot caches the station set.
func (s *CatalogStore) SaveSnapshot(ctx context.Context, sts []stations.Station) error {
	data, err := json.Marshal(sts)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey, data, s.ttl).Err()
}

// LoadSnapshot returns the cached station set, or redis.Nil when the
// cache is cold.
func (s *CatalogStore) LoadSnapshot(ctx context.Context) ([]stations.Station, error) {
	result, err := s.client.Get(ctx, snapshotKey).Result()
	if err != nil {
		return nil, err
	}
	var sts []stations.Station
	if err := json.Unmarshal([]byte(result), &sts); err != nil {
		return nil, err
	}
	return sts, nil
}
