package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/cart"
	"github.com/hanbitlee/furnimarket-backend/internal/orders"
	"github.com/hanbitlee/furnimarket-backend/internal/payments"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service prices, charges, and persists checkouts. Stock is not touched
// here; it is consumed when the seller moves the delivery into preparation.
type Service interface {
	Execute(ctx context.Context, customerID uuid.UUID, input CheckoutInput) (*Receipt, error)
	Quote(ctx context.Context, productID uuid.UUID, quantity int) (*QuoteDTO, error)
}

type service struct {
	tx       txRunner
	products productLoader
	orders   *orders.Repository
	cart     *cart.Repository
	gateway  payments.Gateway
	outbox   outboxPublisher
	logg     *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	products productLoader,
	orders *orders.Repository,
	cart *cart.Repository,
	gateway payments.Gateway,
	publisher outboxPublisher,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart pruner required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:       tx,
		products: products,
		orders:   orders,
		cart:     cart,
		gateway:  gateway,
		outbox:   publisher,
		logg:     logg,
	}, nil
}

func (s *service) Execute(ctx context.Context, customerID uuid.UUID, input CheckoutInput) (*Receipt, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}

	lines, fromCart, err := resolveLines(input)
	if err != nil {
		return nil, err
	}
	if err := validateReceiver(input); err != nil {
		return nil, err
	}

	priced, err := s.price(ctx, lines)
	if err != nil {
		return nil, err
	}

	// The gateway is called before anything is written. A decline leaves no
	// rows behind; a crash after approval leaves an authorized charge with
	// no order, which support reconciles via the gateway reference.
	auth, err := s.gateway.Authorize(ctx, payments.AuthorizeInput{
		CustomerID:     customerID,
		AmountCents:    priced.totalCents,
		Method:         input.PaymentMethod,
		IdempotencyKey: input.IdempotencyKey,
		Description:    fmt.Sprintf("furnimarket order (%d items)", len(lines)),
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		CustomerID:       customerID,
		Status:           enums.OrderStatusPaymentCompleted,
		TotalCents:       priced.totalCents,
		DeliveryFeeCents: priced.deliveryFeeCents,
		ReceiverName:     input.ReceiverName,
		ReceiverPhone:    input.ReceiverPhone,
		DeliveryAddress:  input.DeliveryAddress,
		PaymentMethod:    input.PaymentMethod,
		PaymentRef:       &auth.Ref,
		OrderedAt:        now,
		Items:            priced.items,
		Delivery:         &models.OrderDelivery{Status: enums.DeliveryStatusInit},
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		if fromCart {
			if err := s.cart.WithTx(tx).DeleteByProducts(ctx, customerID, priced.productIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prune cart")
			}
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: customerID, Role: enums.ActorRoleCustomer.String()},
			Data: payloads.OrderCreatedEvent{
				OrderID:          order.ID,
				CustomerID:       customerID,
				TotalCents:       priced.totalCents,
				DeliveryFeeCents: priced.deliveryFeeCents,
				ItemCount:        len(priced.items),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "checkout completed")
	}
	return &Receipt{
		OrderID:          order.ID,
		TotalCents:       priced.totalCents,
		DeliveryFeeCents: priced.deliveryFeeCents,
	}, nil
}

// Quote prices a single-product purchase without charging or persisting.
func (s *service) Quote(ctx context.Context, productID uuid.UUID, quantity int) (*QuoteDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	quote := &QuoteDTO{
		ProductID:      product.ID,
		ProductName:    product.Name,
		UnitPriceCents: product.PriceCents,
		Quantity:       quantity,
		LinePriceCents: product.PriceCents * quantity,
	}
	if product.Policy != nil && product.Policy.Type == enums.DeliveryPolicyPaid {
		quote.DeliveryFeeCents = product.Policy.CostCents
	}
	quote.TotalCents = quote.LinePriceCents + quote.DeliveryFeeCents
	return quote, nil
}

// resolveLines enforces the mutual exclusivity of the two request forms.
func resolveLines(input CheckoutInput) ([]LineInput, bool, error) {
	direct := input.ProductID != nil || input.Quantity != nil
	cart := len(input.OrderItems) > 0

	switch {
	case direct && cart:
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "direct and cart checkout fields are mutually exclusive")
	case direct:
		if input.ProductID == nil || *input.ProductID == uuid.Nil {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "product id required for direct checkout")
		}
		if input.Quantity == nil || *input.Quantity <= 0 {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive for direct checkout")
		}
		return []LineInput{{ProductID: *input.ProductID, Quantity: *input.Quantity}}, false, nil
	case cart:
		for _, line := range input.OrderItems {
			if line.ProductID == uuid.Nil {
				return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "order item product id required")
			}
			if line.Quantity <= 0 {
				return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "order item quantity must be positive")
			}
		}
		return input.OrderItems, true, nil
	default:
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires a product or order items")
	}
}

func validateReceiver(input CheckoutInput) error {
	if input.ReceiverName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "receiver name required")
	}
	if input.ReceiverPhone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "receiver phone required")
	}
	if input.DeliveryAddress == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method required")
	}
	return nil
}

type pricedCheckout struct {
	items            []models.OrderItem
	productIDs       []uuid.UUID
	totalCents       int
	deliveryFeeCents int
}

// price snapshots unit prices and charges each paid delivery policy once per
// distinct product, however many times the product appears in the request.
func (s *service) price(ctx context.Context, lines []LineInput) (*pricedCheckout, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	productsByID, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	priced := &pricedCheckout{items: make([]models.OrderItem, 0, len(lines))}
	feeCharged := make(map[uuid.UUID]bool, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))

	for _, line := range lines {
		product, ok := productsByID[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", line.ProductID))
		}

		priced.items = append(priced.items, models.OrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       line.Quantity,
		})
		priced.totalCents += product.PriceCents * line.Quantity

		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			priced.productIDs = append(priced.productIDs, line.ProductID)
		}
		if product.Policy != nil && product.Policy.Type == enums.DeliveryPolicyPaid && !feeCharged[product.ID] {
			feeCharged[product.ID] = true
			priced.deliveryFeeCents += product.Policy.CostCents
		}
	}
	priced.totalCents += priced.deliveryFeeCents
	return priced, nil
}
