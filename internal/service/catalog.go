package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"electrochile/internal/redisstore"
	"electrochile/internal/repository"
	"electrochile/internal/stations"
)

// CatalogSource lists raw station records. The source must hand over a
// complete, consolidated collection: partial pages never reach the
// normalizer.
type CatalogSource interface {
	FetchAll(ctx context.Context) ([]stations.RawLocation, error)
}

// Catalog owns the in-memory station set. The set is rebuilt wholesale
// on each refresh and snapshots fan out to redis and postgres on a
// best-effort basis; the planning core only ever sees immutable copies.
type Catalog struct {
	source CatalogSource
	repo   *repository.StationRepository
	cache  *redisstore.CatalogStore
	logger *zap.Logger

	mu  sync.RWMutex
	set []stations.Station
}

// NewCatalog builds the catalog service. repo and cache are optional.
func NewCatalog(source CatalogSource, repo *repository.StationRepository, cache *redisstore.CatalogStore, logger *zap.Logger) *Catalog {
	return &Catalog{
		source: source,
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Stations returns a copy of the current station set.
func (c *Catalog) Stations() []stations.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]stations.Station, len(c.set))
	copy(out, c.set)
	return out
}

// Refresh fetches the full listing, normalizes it and swaps the
// in-memory set. Records without coordinates are kept: downstream
// consumers skip them per the data-quality rules.
func (c *Catalog) Refresh(ctx context.Context) error {
	raws, err := c.source.FetchAll(ctx)
	if err != nil {
		return err
	}

	set := make([]stations.Station, 0, len(raws))
	for _, raw := range raws {
		set = append(set, stations.Normalize(raw))
	}

	c.swap(ctx, set)
	c.logger.Info("catalog refreshed", zap.Int("stations", len(set)))
	return nil
}

// ApplyLive merges a batch of real-time rows into the current set using
// the proximity dedup rule.
func (c *Catalog) ApplyLive(ctx context.Context, raws []stations.RawLocation) {
	incoming := make([]stations.Station, 0, len(raws))
	for _, raw := range raws {
		incoming = append(incoming, stations.Normalize(raw))
	}

	c.mu.Lock()
	merged := stations.Merge(c.set, incoming)
	c.set = merged
	c.mu.Unlock()

	c.persist(ctx, merged)
	c.logger.Debug("live telemetry merged", zap.Int("rows", len(incoming)))
}

// WarmStart seeds the set from the redis snapshot, falling back to the
// persisted postgres snapshot. Missing stores are not an error.
func (c *Catalog) WarmStart(ctx context.Context) error {
	if c.cache != nil {
		set, err := c.cache.LoadSnapshot(ctx)
		switch {
		case err == nil && len(set) > 0:
			c.mu.Lock()
			c.set = set
			c.mu.Unlock()
			c.logger.Info("catalog warm-started from cache", zap.Int("stations", len(set)))
			return nil
		case err != nil && !errors.Is(err, redis.Nil):
			c.logger.Warn("cache warm start failed", zap.Error(err))
		}
	}

	if c.repo != nil {
		set, err := c.repo.ListAll(ctx)
		if err != nil {
			return err
		}
		if len(set) > 0 {
			c.mu.Lock()
			c.set = set
			c.mu.Unlock()
			c.logger.Info("catalog warm-started from database", zap.Int("stations", len(set)))
		}
	}
	return nil
}

// Run refreshes immediately and then on every tick until the context is
// cancelled. Refresh failures keep the previous set.
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("initial catalog refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.Warn("catalog refresh failed", zap.Error(err))
			}
		}
	}
}

func (c *Catalog) swap(ctx context.Context, set []stations.Station) {
	c.mu.Lock()
	c.set = set
	c.mu.Unlock()
	c.persist(ctx, set)
}

func (c *Catalog) persist(ctx context.Context, set []stations.Station) {
	if c.cache != nil {
		if err := c.cache.SaveSnapshot(ctx, set); err != nil {
			c.logger.Warn("failed to cache catalog snapshot", zap.Error(err))
		}
	}
	if c.repo != nil {
		if err := c.repo.ReplaceAll(ctx, set); err != nil {
			c.logger.Warn("failed to persist catalog snapshot", zap.Error(err))
		}
	}
}
