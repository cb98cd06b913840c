package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"portions/internal/domain"

	"github.com/lib/pq"
)

var _ domain.FoodRepository = (*DB)(nil)

const foodColumns = "id, barcode, name, serving_text, serving_amount, serving_unit, calories, created_at"

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// AddFood inserts a catalog entry.
func (d *DB) AddFood(ctx context.Context, f domain.Food) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO foods(barcode, name, serving_text, serving_amount, serving_unit, calories, created_at) VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id;",
		f.Barcode, f.Name, f.ServingText, f.ServingAmount, f.ServingUnit, float64(f.Calories), f.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, domain.ErrDuplicateBarcode
		}
		return 0, fmt.Errorf("insert food: %w", err)
	}
	return id, nil
}

// GetFoodByID returns the food with id, or nil.
func (d *DB) GetFoodByID(ctx context.Context, id int64) (*domain.Food, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM foods WHERE id=$1;", id)
	return scanFood(row)
}

// GetFoodByBarcode returns the food registered under barcode, or nil.
func (d *DB) GetFoodByBarcode(ctx context.Context, barcode string) (*domain.Food, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM foods WHERE barcode=$1;", barcode)
	return scanFood(row)
}

// ListRecentFoods returns the most recent foods up to limit.
func (d *DB) ListRecentFoods(ctx context.Context, limit int) ([]domain.Food, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+foodColumns+" FROM foods ORDER BY created_at DESC, id DESC LIMIT $1;", limit)
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
		f        domain.Food
		calories float64
	)
	if err := s.Scan(&f.ID, &f.Barcode, &f.Name, &f.ServingText, &f.ServingAmount, &f.ServingUnit, &calories, &f.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	f.Calories = domain.Kilocalories(calories)
	return &f, nil
}
