package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"portions/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "portions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFoodRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	id, err := db.AddFood(ctx, domain.Food{
		Barcode: "3017620422003", Name: "Pain de mie",
		ServingText: "2 tranches (60g)", Calories: 160, CreatedAt: now.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("AddFood: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero ID")
	}
	id2, err := db.AddFood(ctx, domain.Food{
		Barcode: "5449000000996", Name: "Soda",
		ServingAmount: 1, ServingUnit: "can", Calories: 139, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("AddFood: %v", err)
	}

	if _, err := db.AddFood(ctx, domain.Food{Barcode: "3017620422003", Name: "Again", CreatedAt: now}); !errors.Is(err, domain.ErrDuplicateBarcode) {
		t.Errorf("expected ErrDuplicateBarcode, got %v", err)
	}

	f, err := db.GetFoodByBarcode(ctx, "5449000000996")
	if err != nil || f == nil {
		t.Fatalf("GetFoodByBarcode: %v, %v", f, err)
	}
	if f.ID != id2 || f.ServingAmount != 1 || f.ServingUnit != "can" || f.Calories != 139 {
		t.Errorf("unexpected food %+v", f)
	}
	if !f.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v; want %v", f.CreatedAt, now)
	}

	byID, err := db.GetFoodByID(ctx, id)
	if err != nil || byID == nil || byID.Name != "Pain de mie" {
		t.Errorf("GetFoodByID = %+v, %v", byID, err)
	}
	if f, err := db.GetFoodByBarcode(ctx, "000"); err != nil || f != nil {
		t.Errorf("expected nil, nil for unknown barcode, got %v, %v", f, err)
	}

	items, err := db.ListRecentFoods(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentFoods: %v", err)
	}
	if len(items) != 2 || items[0].ID != id2 {
		t.Errorf("expected newest first, got %+v", items)
	}
	if items, _ := db.ListRecentFoods(ctx, 1); len(items) != 1 {
		t.Errorf("expected limit to apply, got %d", len(items))
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portions.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.AddFood(context.Background(), domain.Food{Barcode: "1", Name: "x", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddFood: %v", err)
	}
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close() //nolint:errcheck

	f, err := db.GetFoodByBarcode(context.Background(), "1")
	if err != nil || f == nil {
		t.Fatalf("expected persisted food, got %v, %v", f, err)
	}
}
