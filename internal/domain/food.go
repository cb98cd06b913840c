package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateBarcode is returned by repositories when a barcode is already
// registered.
var ErrDuplicateBarcode = errors.New("barcode already registered")

// Food is a catalog entry: a product and the serving its calories refer to.
type Food struct {
	ID      int64  `json:"id"`
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
	// ServingText is the serving as printed by the data source, e.g. "2 tranches (60g)".
	ServingText string `json:"servingText"`
	// ServingAmount and ServingUnit are the structured serving some sources
	// provide instead of, or next to, ServingText.
	ServingAmount float64      `json:"servingAmount,omitempty"`
	ServingUnit   string       `json:"servingUnit,omitempty"`
	Calories      Kilocalories `json:"calories"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// StructuredServing returns the food's {amount, unit} pair and whether it is set.
func (f Food) StructuredServing() (FoodServingData, bool) {
	if f.ServingAmount == 0 && f.ServingUnit == "" {
		return FoodServingData{}, false
	}
	return FoodServingData{Amount: f.ServingAmount, Unit: f.ServingUnit}, true
}

// FoodRepository is the port for catalog persistence. Lookups return
// (nil, nil) when nothing matches.
type FoodRepository interface {
	AddFood(ctx context.Context, f Food) (int64, error)
	GetFoodByID(ctx context.Context, id int64) (*Food, error)
	GetFoodByBarcode(ctx context.Context, barcode string) (*Food, error)
	ListRecentFoods(ctx context.Context, limit int) ([]Food, error)
}
