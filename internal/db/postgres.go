// Package db opens the postgres pool backing the persisted catalog
// snapshot.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultMaxConns = 10
	connLifetime    = time.Hour
	pingTimeout     = 5 * time.Second
)

// NewPostgres opens a pgx/stdlib pool and validates the connection.
// The pool is sized for the catalog workload: one refresh writer
// replacing the snapshot plus a few warm-start readers.
func NewPostgres(dsn string, maxConns int) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("db: empty DSN")
	}
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}

	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	pool.SetMaxOpenConns(maxConns)
	pool.SetMaxIdleConns((maxConns + 1) / 2)
	pool.SetConnMaxLifetime(connLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return pool, nil
}
