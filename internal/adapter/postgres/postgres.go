// Package postgres implements the catalog repository on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Pool settings sized for a single small API instance.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connectTimeout  = 5 * time.Second
)

// DB is the PostgreSQL-backed domain.FoodRepository.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL and creates the catalog schema if needed.
func Open(connStr string) (*DB, error) {
	pool, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	d := &DB{sql: pool}
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := d.migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS foods (
			id BIGSERIAL PRIMARY KEY,
			barcode TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			serving_text TEXT NOT NULL DEFAULT '',
			serving_amount DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(serving_amount >= 0),
			serving_unit TEXT NOT NULL DEFAULT '',
			calories DOUBLE PRECISION NOT NULL CHECK(calories >= 0),
			created_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_foods_created_at ON foods(created_at);",
	}

	for i, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
