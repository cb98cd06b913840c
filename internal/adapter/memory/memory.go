// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"portions/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu        sync.Mutex
	foods     []domain.Food
	byBarcode map[string]int

	foodIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{byBarcode: make(map[string]int)}
}

// Ensure interfaces are met.
var _ domain.FoodRepository = (*DB)(nil)

// --- FoodRepository ---

// AddFood stores f and returns its new ID.
func (db *DB) AddFood(ctx context.Context, f domain.Food) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.byBarcode[f.Barcode]; ok {
		return 0, domain.ErrDuplicateBarcode
	}

	db.foodIDCounter++
	f.ID = db.foodIDCounter
	f.CreatedAt = f.CreatedAt.UTC()
	db.byBarcode[f.Barcode] = len(db.foods)
	db.foods = append(db.foods, f)
	return f.ID, nil
}

// GetFoodByID returns the food with id, or nil.
func (db *DB) GetFoodByID(ctx context.Context, id int64) (*domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, f := range db.foods {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, nil
}

// GetFoodByBarcode returns the food registered under barcode, or nil.
func (db *DB) GetFoodByBarcode(ctx context.Context, barcode string) (*domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i, ok := db.byBarcode[barcode]
	if !ok {
		return nil, nil
	}
	f := db.foods[i]
	return &f, nil
}

// ListRecentFoods returns up to limit foods, newest first.
func (db *DB) ListRecentFoods(ctx context.Context, limit int) ([]domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Food, len(db.foods))
	copy(out, db.foods)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
