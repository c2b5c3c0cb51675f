package app

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"electrochile/internal/config"
	"electrochile/internal/db"
	httpserver "electrochile/internal/http"
	"electrochile/internal/http/handlers"
	"electrochile/internal/http/middleware"
	"electrochile/internal/redisstore"
	"electrochile/internal/repository"
	"electrochile/internal/service"
	"electrochile/internal/sources/livefeed"
	"electrochile/internal/sources/ocm"
	"electrochile/internal/sources/osrm"
	"electrochile/internal/stations"
)

// App wires the service dependencies. Postgres, redis and the live feed
// are optional: the planner works from the in-memory catalog alone.
type App struct {
	server  *httpserver.Server
	catalog *service.Catalog
	feed    *livefeed.Client
	sqlDB   *sql.DB
	cache   *redisstore.CatalogStore
	logger  *zap.Logger
	cfg     *config.Config
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	var sqlDB *sql.DB
	var stationRepo *repository.StationRepository
	if strings.TrimSpace(cfg.Database.DSN) != "" {
		pool, err := db.NewPostgres(cfg.Database.DSN, cfg.Database.MaxConns)
		if err != nil {
			return nil, err
		}
		sqlDB = pool
		stationRepo = repository.NewStationRepository(pool)
	}

	var cache *redisstore.CatalogStore
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		store, err := redisstore.Open(cfg.Redis.Addr, cfg.Redis.Password, cfg.SnapshotTTL())
		if err != nil {
			if sqlDB != nil {
				sqlDB.Close()
			}
			return nil, err
		}
		cache = store
	}

	listing := ocm.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.PageSize, nil)
	catalog := service.NewCatalog(listing, stationRepo, cache, logger)

	directions := osrm.NewClient(cfg.Directions.BaseURL, nil)
	trips := service.NewTrips(catalog, directions, logger)

	var feed *livefeed.Client
	if strings.TrimSpace(cfg.LiveFeed.URL) != "" {
		feed = livefeed.NewClient(cfg.LiveFeed.URL, func(raws []stations.RawLocation) {
			catalog.ApplyLive(context.Background(), raws)
		}, logger)
	}

	routes := httpserver.Routes{
		Stations: handlers.NewStationsHandler(catalog),
		Plan:     handlers.NewPlanHandler(trips, logger),
		Health:   handlers.NewHealthHandler(),
	}

	var auth func(http.Handler) http.Handler
	if secret := strings.TrimSpace(cfg.HTTP.JWTSecret); secret != "" {
		auth = middleware.Auth(secret)
	}

	router := httpserver.NewRouter(routes, auth)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, httpserver.Timeouts{
		Read:  cfg.HTTP.ReadTimeout.Std(),
		Write: cfg.HTTP.WriteTimeout.Std(),
		Idle:  cfg.HTTP.IdleTimeout.Std(),
	}, logger)

	return &App{
		server:  server,
		catalog: catalog,
		feed:    feed,
		sqlDB:   sqlDB,
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
	}, nil
}

// Run warm-starts the catalog, launches the refresh loop and live feed,
// and serves HTTP until the context ends.
func (a *App) Run(ctx context.Context) error {
	if err := a.catalog.WarmStart(ctx); err != nil {
		a.logger.Warn("catalog warm start failed", zap.Error(err))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.catalog.Run(ctx, a.cfg.Catalog.RefreshInterval.Std())
	}()

	if a.feed != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.feed.Run(ctx)
		}()
	}

	err := a.server.Run(ctx)
	wg.Wait()
	return err
}

// Close releases resources.
func (a *App) Close() {
	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
