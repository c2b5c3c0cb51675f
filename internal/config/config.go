package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "5m" style values from both YAML and env overrides.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config defines the planner service configuration.
type Config struct {
	HTTP struct {
		Port         string   `yaml:"port" env:"ELECTROCHILE_HTTP_PORT"`
		JWTSecret    string   `yaml:"jwtSecret" env:"ELECTROCHILE_JWT_SECRET"`
		ReadTimeout  Duration `yaml:"readTimeout" env:"ELECTROCHILE_HTTP_READ_TIMEOUT"`
		WriteTimeout Duration `yaml:"writeTimeout" env:"ELECTROCHILE_HTTP_WRITE_TIMEOUT"`
		IdleTimeout  Duration `yaml:"idleTimeout" env:"ELECTROCHILE_HTTP_IDLE_TIMEOUT"`
	} `yaml:"http"`
	Catalog struct {
		BaseURL         string   `yaml:"baseUrl" env:"ELECTROCHILE_CATALOG_BASE_URL"`
		APIKey          string   `yaml:"apiKey" env:"ELECTROCHILE_CATALOG_API_KEY"`
		PageSize        int      `yaml:"pageSize" env:"ELECTROCHILE_CATALOG_PAGE_SIZE"`
		RefreshInterval Duration `yaml:"refreshInterval" env:"ELECTROCHILE_CATALOG_REFRESH_INTERVAL"`
	} `yaml:"catalog"`
	LiveFeed struct {
		URL string `yaml:"url" env:"ELECTROCHILE_LIVEFEED_URL"`
	} `yaml:"liveFeed"`
	Directions struct {
		BaseURL string `yaml:"baseUrl" env:"ELECTROCHILE_DIRECTIONS_BASE_URL"`
	} `yaml:"directions"`
	Database struct {
		DSN      string `yaml:"dsn" env:"ELECTROCHILE_POSTGRES_DSN"`
		MaxConns int    `yaml:"maxConns" env:"ELECTROCHILE_POSTGRES_MAX_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr     string   `yaml:"addr" env:"ELECTROCHILE_REDIS_ADDR"`
		Password string   `yaml:"password" env:"ELECTROCHILE_REDIS_PASSWORD"`
		TTL      Duration `yaml:"ttl" env:"ELECTROCHILE_REDIS_TTL"`
	} `yaml:"redis"`
}

// Load reads configuration and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.HTTP.ReadTimeout = Duration(10 * time.Second)
	cfg.HTTP.WriteTimeout = Duration(15 * time.Second)
	cfg.HTTP.IdleTimeout = Duration(60 * time.Second)
	cfg.Catalog.BaseURL = "https://api.openchargemap.io/v3"
	cfg.Catalog.PageSize = 200
	cfg.Catalog.RefreshInterval = Duration(5 * time.Minute)
	cfg.Directions.BaseURL = "https://router.project-osrm.org"
	cfg.Database.MaxConns = 10
	cfg.Redis.TTL = Duration(15 * time.Minute)

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Catalog.BaseURL) == "" {
		return nil, errors.New("config: catalog base url required")
	}
	if cfg.Catalog.PageSize <= 0 {
		return nil, errors.New("config: catalog page size must be positive")
	}
	if cfg.Catalog.RefreshInterval <= 0 {
		return nil, errors.New("config: catalog refresh interval must be positive")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// SnapshotTTL returns the redis snapshot TTL.
func (c *Config) SnapshotTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 15 * time.Minute
	}
	return c.Redis.TTL.Std()
}
