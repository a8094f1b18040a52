package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.DeliveryPolicy{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int, active bool) uuid.UUID {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		Name:       name,
		PriceCents: 10000,
		Stock:      stock,
		IsActive:   active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func TestReserveDecrementsStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	deskID := seedProduct(t, db, "Desk", 5, true)
	chairID := seedProduct(t, db, "Chair", 2, true)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Reserve(ctx, tx, []ReservationRequest{
			{ProductID: deskID, Qty: 3},
			{ProductID: chairID, Qty: 2},
		})
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	var desk, chair models.Product
	if err := db.First(&desk, "id = ?", deskID).Error; err != nil {
		t.Fatalf("load desk: %v", err)
	}
	if err := db.First(&chair, "id = ?", chairID).Error; err != nil {
		t.Fatalf("load chair: %v", err)
	}
	if desk.Stock != 2 {
		t.Fatalf("expected desk stock 2, got %d", desk.Stock)
	}
	if chair.Stock != 0 {
		t.Fatalf("expected chair stock 0, got %d", chair.Stock)
	}
}

func TestReserveInsufficientStockAbortsAll(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	deskID := seedProduct(t, db, "Desk", 5, true)
	chairID := seedProduct(t, db, "Chair", 1, true)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Reserve(ctx, tx, []ReservationRequest{
			{ProductID: deskID, Qty: 2},
			{ProductID: chairID, Qty: 4},
		})
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	var desk models.Product
	if err := db.First(&desk, "id = ?", deskID).Error; err != nil {
		t.Fatalf("load desk: %v", err)
	}
	if desk.Stock != 5 {
		t.Fatalf("expected rollback to restore desk stock 5, got %d", desk.Stock)
	}
}

func TestReserveInactiveProductNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	id := seedProduct(t, db, "Retired Table", 10, false)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Reserve(ctx, tx, []ReservationRequest{{ProductID: id, Qty: 1}})
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestReserveInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	id := seedProduct(t, db, "Desk", 5, true)

	err := Reserve(context.Background(), db, []ReservationRequest{{ProductID: id, Qty: 0}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReleaseRestoresStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	id := seedProduct(t, db, "Desk", 1, true)

	if err := Release(ctx, db, id, 3); err != nil {
		t.Fatalf("release: %v", err)
	}

	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Stock != 4 {
		t.Fatalf("expected stock 4, got %d", product.Stock)
	}
}

func TestDeactivateDepletedOnlyZeroStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	emptyID := seedProduct(t, db, "Sold Out Lamp", 0, true)
	stockedID := seedProduct(t, db, "Lamp", 2, true)

	if err := DeactivateDepleted(ctx, db, []uuid.UUID{emptyID, stockedID}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	var empty, stocked models.Product
	if err := db.First(&empty, "id = ?", emptyID).Error; err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if err := db.First(&stocked, "id = ?", stockedID).Error; err != nil {
		t.Fatalf("load stocked: %v", err)
	}
	if empty.IsActive {
		t.Fatal("expected depleted product to be deactivated")
	}
	if !stocked.IsActive {
		t.Fatal("expected stocked product to remain active")
	}
}
