// Package database owns the PostgreSQL connection pool used by the relational
// document store and by migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/Dilyara077/practice-task/pkg/logger"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 2
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 2 * time.Minute
	pingTimeout     = 10 * time.Second
)

// Database wraps a *sql.DB opened with the pgx stdlib driver.
type Database struct {
	db *sql.DB
}

// NewPool opens a pool against url and pings it. The returned Database is
// ready for queries; a failed ping closes the pool and returns an error.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	log.InfoContext(ctx, "database pool ready", "max_open_conns", maxOpenConns)
	return New(db), nil
}

// New wraps an already opened *sql.DB. Tests use it with sqlmock.
func New(db *sql.DB) *Database {
	return &Database{db: db}
}

// DB returns the underlying pool.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Ping checks the pool connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

// Close closes every connection in the pool.
func (d *Database) Close() error {
	return d.db.Close()
}
