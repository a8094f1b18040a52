package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/cart"
	"github.com/hanbitlee/furnimarket-backend/internal/orders"
	"github.com/hanbitlee/furnimarket-backend/internal/payments"
	"github.com/hanbitlee/furnimarket-backend/internal/products"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox"
)

type testTx struct {
	db *gorm.DB
}

func (t testTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

type stubGateway struct {
	calls   []payments.AuthorizeInput
	decline bool
}

func (s *stubGateway) Authorize(_ context.Context, input payments.AuthorizeInput) (*payments.Result, error) {
	s.calls = append(s.calls, input)
	if s.decline {
		return nil, pkgerrors.New(pkgerrors.CodePaymentFailed, "card declined")
	}
	return &payments.Result{Ref: "pi_test"}, nil
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type fixture struct {
	svc       Service
	db        *gorm.DB
	gateway   *stubGateway
	publisher *stubOutbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.DeliveryPolicy{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderDelivery{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	gateway := &stubGateway{}
	publisher := &stubOutbox{}
	svc, err := NewService(
		testTx{db: db},
		products.NewRepository(db),
		orders.NewRepository(db),
		cart.NewRepository(db),
		gateway,
		publisher,
		nil,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, db: db, gateway: gateway, publisher: publisher}
}

func (f *fixture) seedProduct(t *testing.T, name string, priceCents, stock int, policy *models.DeliveryPolicy) uuid.UUID {
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
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func receiverFields(method enums.PaymentMethod) CheckoutInput {
	return CheckoutInput{
		ReceiverName:    "Dana Kim",
		ReceiverPhone:   "010-0000-0000",
		DeliveryAddress: "12 Maple St",
		PaymentMethod:   method,
	}
}

func intPtr(v int) *int { return &v }

func TestDirectCheckoutPersistsOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customerID := uuid.New()
	deskID := f.seedProduct(t, "Desk", 10000, 5, &models.DeliveryPolicy{
		Type:      enums.DeliveryPolicyPaid,
		CostCents: 3000,
	})

	input := receiverFields(enums.PaymentMethodCard)
	input.ProductID = &deskID
	input.Quantity = intPtr(2)

	receipt, err := f.svc.Execute(ctx, customerID, input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if receipt.OrderID == uuid.Nil {
		t.Fatal("expected a generated order id")
	}
	if receipt.TotalCents != 23000 || receipt.DeliveryFeeCents != 3000 {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	var order models.Order
	if err := f.db.Preload("Items").Preload("Delivery").First(&order, "id = ?", receipt.OrderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != enums.OrderStatusPaymentCompleted {
		t.Fatalf("expected PAYMENT_COMPLETED, got %s", order.Status)
	}
	if order.PaymentRef == nil || *order.PaymentRef != "pi_test" {
		t.Fatal("expected gateway reference on order")
	}
	if len(order.Items) != 1 || order.Items[0].UnitPriceCents != 10000 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if order.Delivery == nil || order.Delivery.Status != enums.DeliveryStatusInit {
		t.Fatalf("expected delivery in INIT, got %+v", order.Delivery)
	}
	if order.Delivery.StartedAt != nil {
		t.Fatal("expected no start date before preparation")
	}

	// Checkout never consumes stock.
	var product models.Product
	if err := f.db.First(&product, "id = ?", deskID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("expected stock untouched at 5, got %d", product.Stock)
	}

	if len(f.publisher.events) != 1 || f.publisher.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected order_created event, got %+v", f.publisher.events)
	}
}

func TestCartCheckoutChargesFeeOncePerDistinctProduct(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customerID := uuid.New()
	deskID := f.seedProduct(t, "Desk", 10000, 5, &models.DeliveryPolicy{
		Type:      enums.DeliveryPolicyPaid,
		CostCents: 3000,
	})
	lampID := f.seedProduct(t, "Lamp", 20000, 5, nil)

	for _, productID := range []uuid.UUID{deskID, lampID} {
		item := &models.CartItem{CustomerID: customerID, ProductID: productID, Quantity: 1}
		if err := f.db.Create(item).Error; err != nil {
			t.Fatalf("seed cart item: %v", err)
		}
	}

	input := receiverFields(enums.PaymentMethodCard)
	input.OrderItems = []LineInput{
		{ProductID: deskID, Quantity: 1},
		{ProductID: deskID, Quantity: 1},
		{ProductID: lampID, Quantity: 1},
	}

	receipt, err := f.svc.Execute(ctx, customerID, input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if receipt.TotalCents != 43000 {
		t.Fatalf("expected total 43000 (duplicate desk line charges one fee), got %d", receipt.TotalCents)
	}
	if receipt.DeliveryFeeCents != 3000 {
		t.Fatalf("expected single 3000 fee, got %d", receipt.DeliveryFeeCents)
	}

	var remaining int64
	f.db.Model(&models.CartItem{}).Where("customer_id = ?", customerID).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected purchased products pruned from cart, %d rows remain", remaining)
	}
}

func TestCheckoutMutualExclusivity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	deskID := f.seedProduct(t, "Desk", 10000, 5, nil)

	input := receiverFields(enums.PaymentMethodCard)
	input.ProductID = &deskID
	input.Quantity = intPtr(1)
	input.OrderItems = []LineInput{{ProductID: deskID, Quantity: 1}}

	_, err := f.svc.Execute(context.Background(), uuid.New(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	empty := receiverFields(enums.PaymentMethodCard)
	_, err = f.svc.Execute(context.Background(), uuid.New(), empty)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty request, got %v", err)
	}
}

func TestCheckoutRequiresReceiverFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	deskID := f.seedProduct(t, "Desk", 10000, 5, nil)

	input := CheckoutInput{
		ProductID:     &deskID,
		Quantity:      intPtr(1),
		ReceiverPhone: "010-0000-0000",
		PaymentMethod: enums.PaymentMethodCard,
	}
	input.DeliveryAddress = "12 Maple St"

	_, err := f.svc.Execute(context.Background(), uuid.New(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing receiver name, got %v", err)
	}
	if len(f.gateway.calls) != 0 {
		t.Fatal("gateway must not be called for invalid requests")
	}
}

func TestCheckoutUnknownProduct(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	missing := uuid.New()

	input := receiverFields(enums.PaymentMethodCard)
	input.ProductID = &missing
	input.Quantity = intPtr(1)

	_, err := f.svc.Execute(context.Background(), uuid.New(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckoutDeclinedPaymentPersistsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gateway.decline = true
	deskID := f.seedProduct(t, "Desk", 10000, 5, nil)

	input := receiverFields(enums.PaymentMethodCard)
	input.ProductID = &deskID
	input.Quantity = intPtr(1)

	_, err := f.svc.Execute(context.Background(), uuid.New(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePaymentFailed {
		t.Fatalf("expected payment failed, got %v", err)
	}

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no orders persisted, got %d", count)
	}
}

func TestQuoteComputesTotals(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	deskID := f.seedProduct(t, "Desk", 10000, 5, &models.DeliveryPolicy{
		Type:      enums.DeliveryPolicyPaid,
		CostCents: 3000,
	})

	quote, err := f.svc.Quote(context.Background(), deskID, 2)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.LinePriceCents != 20000 || quote.DeliveryFeeCents != 3000 || quote.TotalCents != 23000 {
		t.Fatalf("unexpected quote: %+v", quote)
	}

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatal("quote must not persist anything")
	}
}
