// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portions/internal/domain"
)

var (
	// ErrFoodNotFound indicates that no catalog entry matches the request.
	ErrFoodNotFound = errors.New("food not found")
	// ErrInvalidInput indicates a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// Bounds for ListRecent.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// FoodInput is the data needed to register a catalog entry.
type FoodInput struct {
	Barcode       string              `json:"barcode"`
	Name          string              `json:"name"`
	ServingText   string              `json:"servingText"`
	ServingAmount float64             `json:"servingAmount"`
	ServingUnit   string              `json:"servingUnit"`
	Calories      domain.Kilocalories `json:"calories"`
}

// CatalogService encapsulates the food catalog use cases.
type CatalogService struct {
	repo domain.FoodRepository
}

// NewCatalogService creates a CatalogService backed by the given repository.
func NewCatalogService(repo domain.FoodRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// RegisterFood validates and stores a new catalog entry.
func (s *CatalogService) RegisterFood(ctx context.Context, in FoodInput) (*domain.Food, error) {
	f := domain.Food{
		Barcode:       strings.TrimSpace(in.Barcode),
		Name:          strings.TrimSpace(in.Name),
		ServingText:   strings.TrimSpace(in.ServingText),
		ServingAmount: in.ServingAmount,
		ServingUnit:   strings.TrimSpace(in.ServingUnit),
		Calories:      in.Calories,
		CreatedAt:     time.Now().UTC(),
	}
	if f.Barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", ErrInvalidInput)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if f.Calories < 0 {
		return nil, fmt.Errorf("%w: calories must be >= 0", ErrInvalidInput)
	}
	if f.ServingAmount < 0 {
		return nil, fmt.Errorf("%w: servingAmount must be >= 0", ErrInvalidInput)
	}

	id, err := s.repo.AddFood(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", f.Barcode, err)
	}
	f.ID = id
	return &f, nil
}

// LookupBarcode returns the catalog entry for barcode.
func (s *CatalogService) LookupBarcode(ctx context.Context, barcode string) (*domain.Food, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ErrFoodNotFound
	}
	f, err := s.repo.GetFoodByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFoodNotFound
	}
	return f, nil
}

// GetFood returns the catalog entry with id.
func (s *CatalogService) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be > 0", ErrInvalidInput)
	}
	f, err := s.repo.GetFoodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFoodNotFound
	}
	return f, nil
}

// ListRecent returns the most recently registered foods. limit is clamped to
// [1, 100]; zero or negative means the default page size.
func (s *CatalogService) ListRecent(ctx context.Context, limit int) ([]domain.Food, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	return s.repo.ListRecentFoods(ctx, limit)
}
