package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox/payloads"
	"github.com/hanbitlee/furnimarket-backend/pkg/pagination"
)

func paginationParams(limit int, cursor string) pagination.Params {
	return pagination.Params{Limit: limit, Cursor: cursor}
}

type testTx struct {
	db *gorm.DB
}

func (t testTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.DeliveryPolicy{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderDelivery{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *gorm.DB, *stubOutbox) {
	t.Helper()
	db := newTestDB(t)
	publisher := &stubOutbox{}
	svc, err := NewService(NewRepository(db), testTx{db: db}, publisher, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db, publisher
}

type orderFixture struct {
	customerID uuid.UUID
	orderID    uuid.UUID
	productID  uuid.UUID
}

func seedOrder(t *testing.T, db *gorm.DB, orderStatus enums.OrderStatus, deliveryStatus enums.DeliveryStatus, stock, qty int) orderFixture {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		Name:       "Desk",
		PriceCents: 10000,
		Stock:      stock,
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		Status:          orderStatus,
		TotalCents:      10000 * qty,
		ReceiverName:    "Dana Kim",
		ReceiverPhone:   "010-0000-0000",
		DeliveryAddress: "12 Maple St",
		PaymentMethod:   enums.PaymentMethodCard,
		OrderedAt:       time.Now(),
		Items: []models.OrderItem{{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPriceCents: 10000,
			Quantity:       qty,
		}},
		Delivery: &models.OrderDelivery{
			Status: deliveryStatus,
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return orderFixture{customerID: order.CustomerID, orderID: order.ID, productID: product.ID}
}

func TestCancelRestocksWhenDeliveryPreparing(t *testing.T) {
	t.Parallel()

	svc, db, publisher := newTestService(t)
	ctx := context.Background()
	fx := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusPreparing, 2, 3)

	if err := svc.Cancel(ctx, fx.customerID, fx.orderID, "changed my mind"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var order models.Order
	if err := db.First(&order, "id = ?", fx.orderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != enums.OrderStatusPurchaseCanceled {
		t.Fatalf("expected PURCHASE_CANCELED, got %s", order.Status)
	}

	var product models.Product
	if err := db.First(&product, "id = ?", fx.productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("expected restocked quantity 5, got %d", product.Stock)
	}

	var delivery models.OrderDelivery
	if err := db.First(&delivery, "order_id = ?", fx.orderID).Error; err != nil {
		t.Fatalf("load delivery: %v", err)
	}
	if delivery.CompletedAt == nil {
		t.Fatal("expected delivery record closed with completed_at")
	}

	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventOrderCanceled {
		t.Fatalf("expected order_canceled event, got %+v", publisher.events)
	}
	payload, ok := publisher.events[0].Data.(payloads.OrderCanceledEvent)
	if !ok || !payload.Restocked {
		t.Fatalf("expected restocked cancel payload, got %+v", publisher.events[0].Data)
	}
}

func TestCancelDeliveryInitDoesNotRestock(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	ctx := context.Background()
	fx := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusInit, 4, 2)

	if err := svc.Cancel(ctx, fx.customerID, fx.orderID, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var product models.Product
	if err := db.First(&product, "id = ?", fx.productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Stock != 4 {
		t.Fatalf("expected stock unchanged at 4, got %d", product.Stock)
	}
}

func TestCancelKeepsExistingDeliveryCompletedAt(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	ctx := context.Background()
	fx := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusInit, 5, 1)

	earlier := time.Now().Add(-48 * time.Hour).UTC().Truncate(time.Second)
	if err := db.Model(&models.OrderDelivery{}).
		Where("order_id = ?", fx.orderID).
		Update("completed_at", earlier).Error; err != nil {
		t.Fatalf("preset completed_at: %v", err)
	}

	if err := svc.Cancel(ctx, fx.customerID, fx.orderID, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var delivery models.OrderDelivery
	if err := db.First(&delivery, "order_id = ?", fx.orderID).Error; err != nil {
		t.Fatalf("load delivery: %v", err)
	}
	if delivery.CompletedAt == nil || delivery.CompletedAt.Unix() != earlier.Unix() {
		t.Fatalf("expected completed_at %v preserved, got %v", earlier, delivery.CompletedAt)
	}
}

func TestCancelRejectedInTransit(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	fx := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusInProgress, 5, 1)

	err := svc.Cancel(context.Background(), fx.customerID, fx.orderID, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCancelForeignOrderNotFound(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	fx := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusInit, 5, 1)

	err := svc.Cancel(context.Background(), uuid.New(), fx.orderID, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign customer, got %v", err)
	}
}

func TestConfirmRequiresCompletedDelivery(t *testing.T) {
	t.Parallel()

	svc, db, publisher := newTestService(t)
	ctx := context.Background()

	inTransit := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusInProgress, 5, 1)
	err := svc.Confirm(ctx, inTransit.customerID, inTransit.orderID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict before completion, got %v", err)
	}

	delivered := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusCompleted, 5, 1)
	if err := svc.Confirm(ctx, delivered.customerID, delivered.orderID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	var order models.Order
	if err := db.First(&order, "id = ?", delivered.orderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != enums.OrderStatusPurchaseConfirmed {
		t.Fatalf("expected PURCHASE_CONFIRMED, got %s", order.Status)
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventOrderConfirmed {
		t.Fatalf("expected order_confirmed event, got %+v", publisher.events)
	}
}

func TestDeleteRemovesAllRows(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	ctx := context.Background()
	fx := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusInit, 5, 1)

	if err := svc.Delete(ctx, fx.customerID, fx.orderID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var orderCount, itemCount, deliveryCount int64
	db.Model(&models.Order{}).Where("id = ?", fx.orderID).Count(&orderCount)
	db.Model(&models.OrderItem{}).Where("order_id = ?", fx.orderID).Count(&itemCount)
	db.Model(&models.OrderDelivery{}).Where("order_id = ?", fx.orderID).Count(&deliveryCount)
	if orderCount != 0 || itemCount != 0 || deliveryCount != 0 {
		t.Fatalf("expected all rows removed, got order=%d items=%d delivery=%d", orderCount, itemCount, deliveryCount)
	}
}

func TestDeleteRestocksWhenDeliveryPreparing(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	ctx := context.Background()
	fx := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusPreparing, 2, 3)

	if err := svc.Delete(ctx, fx.customerID, fx.orderID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var product models.Product
	if err := db.First(&product, "id = ?", fx.productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("expected restocked quantity 5, got %d", product.Stock)
	}

	var orderCount int64
	db.Model(&models.Order{}).Where("id = ?", fx.orderID).Count(&orderCount)
	if orderCount != 0 {
		t.Fatal("expected order row removed")
	}
}

func TestDeleteRejectedAfterConfirmation(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	fx := seedOrder(t, db, enums.OrderStatusPurchaseConfirmed, enums.DeliveryStatusInit, 5, 1)

	err := svc.Delete(context.Background(), fx.customerID, fx.orderID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestGetProjectsDeliveryState(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	fx := seedOrder(t, db, enums.OrderStatusPaymentCompleted, enums.DeliveryStatusPreparing, 5, 2)

	dto, err := svc.Get(context.Background(), fx.customerID, fx.orderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.DeliveryStatus != "DELIVERY_PREPARING" {
		t.Fatalf("expected DELIVERY_PREPARING, got %s", dto.DeliveryStatus)
	}
	if len(dto.Items) != 1 || dto.Items[0].LineTotalCents != 20000 {
		t.Fatalf("unexpected items projection: %+v", dto.Items)
	}
}

func TestListPaginatesNewestFirst(t *testing.T) {
	t.Parallel()

	svc, db, _ := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()

	for i := 0; i < 3; i++ {
		order := &models.Order{
			ID:              uuid.New(),
			CustomerID:      customerID,
			Status:          enums.OrderStatusPaymentCompleted,
			TotalCents:      1000 * (i + 1),
			ReceiverName:    "Dana Kim",
			ReceiverPhone:   "010-0000-0000",
			DeliveryAddress: "12 Maple St",
			PaymentMethod:   enums.PaymentMethodCard,
			OrderedAt:       time.Now(),
		}
		if err := db.Create(order).Error; err != nil {
			t.Fatalf("seed order %d: %v", i, err)
		}
	}

	result, err := svc.List(ctx, ListInput{CustomerID: customerID, Pagination: paginationParams(2, "")})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 || result.NextCursor == "" {
		t.Fatalf("expected first page of 2 with cursor, got %d items", len(result.Items))
	}

	rest, err := svc.List(ctx, ListInput{CustomerID: customerID, Pagination: paginationParams(2, result.NextCursor)})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(rest.Items) != 1 || rest.NextCursor != "" {
		t.Fatalf("expected final page of 1, got %d items", len(rest.Items))
	}
}
