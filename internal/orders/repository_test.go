package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

func seedOrderAt(t *testing.T, repo *Repository, customerID uuid.UUID, at time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Status:          enums.OrderStatusPaymentCompleted,
		TotalCents:      43000,
		ReceiverName:    "Dana Park",
		ReceiverPhone:   "010-1234-5678",
		DeliveryAddress: "12 Maple Ave",
		PaymentMethod:   enums.PaymentMethodCard,
		OrderedAt:       at,
		CreatedAt:       at,
	}
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return order
}

func TestRepositoryListByCustomerPaginates(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	customerID := uuid.New()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var seeded []*models.Order
	for i := 0; i < 5; i++ {
		seeded = append(seeded, seedOrderAt(t, repo, customerID, base.Add(time.Duration(i)*time.Minute)))
	}

	firstPage, cursor, err := repo.ListByCustomer(context.Background(), ListInput{
		CustomerID: customerID,
		Pagination: paginationParams(2, ""),
	})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, seeded[4].ID, firstPage[0].ID)
	assert.Equal(t, seeded[3].ID, firstPage[1].ID)

	secondPage, cursor, err := repo.ListByCustomer(context.Background(), ListInput{
		CustomerID: customerID,
		Pagination: paginationParams(2, cursor),
	})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, seeded[2].ID, secondPage[0].ID)

	lastPage, cursor, err := repo.ListByCustomer(context.Background(), ListInput{
		CustomerID: customerID,
		Pagination: paginationParams(2, cursor),
	})
	require.NoError(t, err)
	require.Len(t, lastPage, 1)
	assert.Empty(t, cursor)
	assert.Equal(t, seeded[0].ID, lastPage[0].ID)
}

func TestRepositoryListByCustomerScopesToOwner(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	mine := uuid.New()
	theirs := uuid.New()

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	kept := seedOrderAt(t, repo, mine, base)
	seedOrderAt(t, repo, theirs, base.Add(time.Minute))

	rows, cursor, err := repo.ListByCustomer(context.Background(), ListInput{
		CustomerID: mine,
		Pagination: paginationParams(10, ""),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, cursor)
	assert.Equal(t, kept.ID, rows[0].ID)
}

func TestRepositoryListByCustomerRejectsGarbageCursor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)

	_, _, err := repo.ListByCustomer(context.Background(), ListInput{
		CustomerID: uuid.New(),
		Pagination: paginationParams(10, "not-a-cursor"),
	})
	assert.Error(t, err)
}

func TestRepositoryDeleteCascadeRemovesChildren(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	customerID := uuid.New()

	order := seedOrderAt(t, repo, customerID, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC))
	item := models.OrderItem{
		ID:             uuid.New(),
		OrderID:        order.ID,
		ProductID:      uuid.New(),
		ProductName:    "Oak Side Table",
		UnitPriceCents: 20000,
		Quantity:       2,
	}
	require.NoError(t, db.Create(&item).Error)
	delivery := models.OrderDelivery{
		ID:      uuid.New(),
		OrderID: order.ID,
		Status:  enums.DeliveryStatusInit,
	}
	require.NoError(t, db.Create(&delivery).Error)

	require.NoError(t, repo.DeleteCascade(context.Background(), order.ID))

	var orderCount, itemCount, deliveryCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.OrderDelivery{}).Where("order_id = ?", order.ID).Count(&deliveryCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, deliveryCount)
}
