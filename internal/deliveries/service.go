package deliveries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/inventory"
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

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// PayoutTrigger generates the seller settlement for a delivered order. It is
// invoked after the transition commits and must tolerate duplicate calls.
type PayoutTrigger interface {
	GenerateIfNotExists(ctx context.Context, orderID uuid.UUID) error
}

// Service drives delivery status transitions and seller shipment views.
type Service interface {
	UpdateStatus(ctx context.Context, sellerID, orderID uuid.UUID, input UpdateStatusInput) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]DeliveryDTO, error)
	GetByOrderID(ctx context.Context, sellerID, orderID uuid.UUID) (*DeliveryDTO, error)
}

type service struct {
	repo    *Repository
	tx      txRunner
	outbox  outboxPublisher
	payouts PayoutTrigger
	logg    *logger.Logger
}

// NewService builds the delivery transition service.
func NewService(repo *Repository, tx txRunner, publisher outboxPublisher, payouts PayoutTrigger, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deliveries repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if payouts == nil {
		return nil, fmt.Errorf("payout trigger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  publisher,
		payouts: payouts,
		logg:    logg,
	}, nil
}

// UpdateStatus applies one transition from the table in transitions.go with
// its side effects, all inside a single transaction. The payout trigger runs
// after commit; its failure never rolls back the transition.
func (s *service) UpdateStatus(ctx context.Context, sellerID, orderID uuid.UUID, input UpdateStatusInput) error {
	if sellerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery status")
	}

	completed := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		delivery, err := repo.FindForSeller(ctx, sellerID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "delivery not found for seller")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
		}

		from := delivery.Status
		to := input.Status
		if !CanTransition(from, to) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("delivery transition %s -> %s is not allowed", from, to))
		}

		items, err := repo.OrderItems(ctx, delivery.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
		}

		delivery.Status = to

		if to == enums.DeliveryStatusPreparing && from == enums.DeliveryStatusInit {
			requests := make([]inventory.ReservationRequest, 0, len(items))
			for _, item := range items {
				requests = append(requests, inventory.ReservationRequest{
					ProductID: item.ProductID,
					Qty:       item.Quantity,
				})
			}
			if err := inventory.Reserve(ctx, tx, requests); err != nil {
				return err
			}
			if delivery.StartedAt == nil {
				now := time.Now()
				delivery.StartedAt = &now
			}
		}

		if to == enums.DeliveryStatusInProgress {
			if input.TrackingNumber != nil {
				delivery.TrackingNumber = input.TrackingNumber
			}
			if input.Carrier != nil {
				delivery.Carrier = input.Carrier
			}
		}

		if to == enums.DeliveryStatusCompleted && delivery.CompletedAt == nil {
			now := time.Now()
			delivery.CompletedAt = &now
		}

		updated, err := repo.SaveTransition(ctx, delivery, from)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save delivery")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("delivery left %s while the transition was applied", from))
		}

		productIDs := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
		if err := inventory.DeactivateDepleted(ctx, tx, productIDs); err != nil {
			return err
		}

		completed = to == enums.DeliveryStatusCompleted
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDeliveryStateChanged,
			AggregateType: enums.AggregateDelivery,
			AggregateID:   delivery.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: sellerID, Role: enums.ActorRoleSeller.String()},
			Data: payloads.DeliveryStateChangedEvent{
				DeliveryID: delivery.ID,
				OrderID:    delivery.OrderID,
				SellerID:   sellerID,
				From:       from,
				To:         to,
				ChangedAt:  time.Now(),
			},
		})
	})
	if err != nil {
		return err
	}

	if completed {
		if perr := s.payouts.GenerateIfNotExists(ctx, orderID); perr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, orderID.String()),
				fmt.Sprintf("payout generation failed, will be retried out-of-band: %v", perr))
		}
	}
	return nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]DeliveryDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}

	rows, err := s.repo.ListForSeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deliveries")
	}

	dtos := make([]DeliveryDTO, 0, len(rows))
	for i := range rows {
		dto, err := s.project(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

func (s *service) GetByOrderID(ctx context.Context, sellerID, orderID uuid.UUID) (*DeliveryDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}

	delivery, err := s.repo.FindForSeller(ctx, sellerID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery not found for seller")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
	}
	return s.project(ctx, delivery)
}

func (s *service) project(ctx context.Context, delivery *models.OrderDelivery) (*DeliveryDTO, error) {
	items, err := s.repo.OrderItems(ctx, delivery.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	buyerID, err := s.repo.OrderCustomer(ctx, delivery.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order customer")
	}

	dto := &DeliveryDTO{
		OrderID:        delivery.OrderID,
		BuyerID:        buyerID,
		Status:         delivery.Status.String(),
		StartedAt:      delivery.StartedAt,
		CompletedAt:    delivery.CompletedAt,
		TrackingNumber: delivery.TrackingNumber,
		Carrier:        delivery.Carrier,
	}
	if len(items) > 0 {
		dto.ProductName = items[0].ProductName
	}
	return dto, nil
}
