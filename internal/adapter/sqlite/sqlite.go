// Package sqlite implements the catalog repository on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"portions/internal/domain"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var _ domain.FoodRepository = (*DB)(nil)

// Open opens (or creates) the database file at path and initializes the schema.
func Open(path string) (*DB, error) {
	s, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &DB{sql: s}
	if err := d.initSchema(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS foods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		barcode TEXT NOT NULL,
		name TEXT NOT NULL,
		serving_text TEXT NOT NULL DEFAULT '',
		serving_amount REAL NOT NULL DEFAULT 0 CHECK(serving_amount >= 0),
		serving_unit TEXT NOT NULL DEFAULT '',
		calories REAL NOT NULL CHECK(calories >= 0),
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_foods_barcode ON foods(barcode);
	CREATE INDEX IF NOT EXISTS idx_foods_created_at ON foods(created_at);
	`
	if _, err := d.sql.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Fixed width so that created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const foodColumns = "id, barcode, name, serving_text, serving_amount, serving_unit, calories, created_at"

// AddFood inserts a catalog entry.
func (d *DB) AddFood(ctx context.Context, f domain.Food) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO foods(barcode, name, serving_text, serving_amount, serving_unit, calories, created_at) VALUES(?, ?, ?, ?, ?, ?, ?);",
		f.Barcode, f.Name, f.ServingText, f.ServingAmount, f.ServingUnit, float64(f.Calories),
		f.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateBarcode
		}
		return 0, fmt.Errorf("insert food: %w", err)
	}
	return res.LastInsertId()
}

// GetFoodByID returns the food with id, or nil.
func (d *DB) GetFoodByID(ctx context.Context, id int64) (*domain.Food, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM foods WHERE id = ?;", id)
	return scanFood(row)
}

// GetFoodByBarcode returns the food registered under barcode, or nil.
func (d *DB) GetFoodByBarcode(ctx context.Context, barcode string) (*domain.Food, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM foods WHERE barcode = ?;", barcode)
	return scanFood(row)
}

// ListRecentFoods returns the most recent foods up to limit.
func (d *DB) ListRecentFoods(ctx context.Context, limit int) ([]domain.Food, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+foodColumns+" FROM foods ORDER BY created_at DESC, id DESC LIMIT ?;", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFood(s scanner) (*domain.Food, error) {
	var (
		f         domain.Food
		calories  float64
		createdAt string
	)
	if err := s.Scan(&f.ID, &f.Barcode, &f.Name, &f.ServingText, &f.ServingAmount, &f.ServingUnit, &calories, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("food %d: bad created_at %q: %w", f.ID, createdAt, err)
	}
	f.CreatedAt = t
	f.Calories = domain.Kilocalories(calories)
	return &f, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
