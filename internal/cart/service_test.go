package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/products"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.DeliveryPolicy{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db), products.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, priceCents, stock int, policy *models.DeliveryPolicy) uuid.UUID {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Stock:      stock,
		IsActive:   true,
		Policy:     policy,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func TestAddUpsertsQuantity(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	productID := seedProduct(t, db, "Desk", 10000, 5, nil)

	if err := svc.Add(ctx, customerID, productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(ctx, customerID, productID, 4); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	var rows []models.CartItem
	if err := db.Where("customer_id = ?", customerID).Find(&rows).Error; err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected single row per product, got %d", len(rows))
	}
	if rows[0].Quantity != 4 {
		t.Fatalf("expected quantity replaced with 4, got %d", rows[0].Quantity)
	}
}

func TestAddRejectsOverStock(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	productID := seedProduct(t, db, "Chair", 5000, 2, nil)

	err := svc.Add(context.Background(), uuid.New(), productID, 3)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	err := svc.Add(context.Background(), uuid.New(), uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateQuantityRequiresExistingItem(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	productID := seedProduct(t, db, "Sofa", 80000, 5, nil)

	err := svc.UpdateQuantity(context.Background(), uuid.New(), productID, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing cart item, got %v", err)
	}
}

func TestListComputesTotalsWithPaidDelivery(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()

	deskID := seedProduct(t, db, "Desk", 10000, 5, &models.DeliveryPolicy{
		Type:      enums.DeliveryPolicyPaid,
		CostCents: 3000,
	})
	lampID := seedProduct(t, db, "Lamp", 20000, 5, nil)

	if err := svc.Add(ctx, customerID, deskID, 2); err != nil {
		t.Fatalf("add desk: %v", err)
	}
	if err := svc.Add(ctx, customerID, lampID, 1); err != nil {
		t.Fatalf("add lamp: %v", err)
	}

	dto, err := svc.List(ctx, customerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dto.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(dto.Items))
	}
	if dto.SubtotalCents != 40000 {
		t.Fatalf("expected subtotal 40000, got %d", dto.SubtotalCents)
	}
	if dto.DeliveryFeeTotalCents != 3000 {
		t.Fatalf("expected delivery fees 3000, got %d", dto.DeliveryFeeTotalCents)
	}
	if dto.TotalCents != 43000 {
		t.Fatalf("expected total 43000, got %d", dto.TotalCents)
	}
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	deskID := seedProduct(t, db, "Desk", 10000, 5, nil)
	lampID := seedProduct(t, db, "Lamp", 20000, 5, nil)

	if err := svc.Add(ctx, customerID, deskID, 1); err != nil {
		t.Fatalf("add desk: %v", err)
	}
	if err := svc.Add(ctx, customerID, lampID, 1); err != nil {
		t.Fatalf("add lamp: %v", err)
	}

	if err := svc.Remove(ctx, customerID, deskID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	dto, err := svc.List(ctx, customerID)
	if err != nil {
		t.Fatalf("list after remove: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected 1 item after remove, got %d", len(dto.Items))
	}

	if err := svc.Clear(ctx, customerID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	dto, err = svc.List(ctx, customerID)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(dto.Items))
	}
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	deskID := seedProduct(t, db, "Desk", 10000, 5, nil)

	if err := svc.Add(ctx, customerID, deskID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.UpdateQuantity(ctx, customerID, deskID, 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}

	dto, err := svc.List(ctx, customerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected line removed, got %d items", len(dto.Items))
	}
}
