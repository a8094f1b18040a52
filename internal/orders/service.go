package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/inventory"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type stockReleaser func(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error

// cancelableOrderStatuses also gates Delete. ORDER_RECEIVED is accepted
// although no current flow writes it.
var cancelableOrderStatuses = map[enums.OrderStatus]bool{
	enums.OrderStatusInit:             true,
	enums.OrderStatusPaymentCompleted: true,
	enums.OrderStatusOrderReceived:    true,
}

var preTransitDeliveryStatuses = map[enums.DeliveryStatus]bool{
	enums.DeliveryStatusInit:      true,
	enums.DeliveryStatusPreparing: true,
}

// Service governs the order lifecycle after checkout.
type Service interface {
	Cancel(ctx context.Context, customerID, orderID uuid.UUID, reason string) error
	Confirm(ctx context.Context, customerID, orderID uuid.UUID) error
	Delete(ctx context.Context, customerID, orderID uuid.UUID) error
	Get(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

type service struct {
	repo    *Repository
	tx      txRunner
	outbox  outboxPublisher
	release stockReleaser
	logg    *logger.Logger
}

// NewService builds the order lifecycle service.
func NewService(repo *Repository, tx txRunner, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  publisher,
		release: inventory.Release,
		logg:    logg,
	}, nil
}

// Cancel aborts a pre-transit order. Stock consumed by a delivery already in
// preparation is returned; an order whose delivery never left INIT has not
// consumed any stock.
func (s *service) Cancel(ctx context.Context, customerID, orderID uuid.UUID, reason string) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindForCustomer(ctx, customerID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		restocked := false
		if order.Delivery != nil {
			if !preTransitDeliveryStatuses[order.Delivery.Status] {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("order cannot be canceled while delivery is %s", order.Delivery.Status))
			}
			if order.Delivery.Status == enums.DeliveryStatusPreparing {
				for _, item := range order.Items {
					if err := s.release(ctx, tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
				restocked = true
			}
			if order.Delivery.CompletedAt == nil {
				now := time.Now()
				order.Delivery.CompletedAt = &now
			}
			if err := repo.SaveDelivery(ctx, order.Delivery); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close delivery record")
			}
		}

		if !cancelableOrderStatuses[order.Status] {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in status %s cannot be canceled", order.Status))
		}

		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPurchaseCanceled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		if s.logg != nil && reason != "" {
			s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), fmt.Sprintf("order canceled: %s", reason))
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: customerID, Role: enums.ActorRoleCustomer.String()},
			Data: payloads.OrderCanceledEvent{
				OrderID:    order.ID,
				CustomerID: customerID,
				CanceledAt: time.Now(),
				Restocked:  restocked,
			},
		})
	})
}

// Confirm finalizes a delivered order.
func (s *service) Confirm(ctx context.Context, customerID, orderID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindForCustomer(ctx, customerID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Delivery == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no delivery record to confirm")
		}
		if order.Delivery.Status != enums.DeliveryStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order cannot be confirmed while delivery is %s", order.Delivery.Status))
		}

		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPurchaseConfirmed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderConfirmed,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: customerID, Role: enums.ActorRoleCustomer.String()},
			Data: payloads.OrderConfirmedEvent{
				OrderID:     order.ID,
				CustomerID:  customerID,
				ConfirmedAt: time.Now(),
			},
		})
	})
}

// Delete irreversibly removes a pre-transit order and its rows.
func (s *service) Delete(ctx context.Context, customerID, orderID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindForCustomer(ctx, customerID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Delivery != nil && !preTransitDeliveryStatuses[order.Delivery.Status] {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order cannot be deleted while delivery is %s", order.Delivery.Status))
		}
		if !cancelableOrderStatuses[order.Status] {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in status %s cannot be deleted", order.Status))
		}

		// Reserved units go back to stock, same policy as cancel.
		if order.Delivery != nil && order.Delivery.Status == enums.DeliveryStatusPreparing {
			for _, item := range order.Items {
				if err := s.release(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := repo.DeleteCascade(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	order, err := s.repo.FindForCustomer(ctx, customerID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := ToDTO(order)
	return &dto, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	rows, next, err := s.repo.ListByCustomer(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	result := &ListResult{
		Items:      make([]OrderDTO, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		result.Items = append(result.Items, ToDTO(&rows[i]))
	}
	return result, nil
}
