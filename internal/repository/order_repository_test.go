package repository

import (
	"context"
	"testing"
	"time"

	"event-ticket-system/internal/model"
	apperrors "event-ticket-system/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testDB)

	t.Run("OrderAndLinesLandTogether", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := createTestEvent(t, "Concert")
		ttID := createTestTicketType(t, eventID, 10, 100)

		tx, err := testDB.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		order := &model.Order{
			OrderID:    uuid.New(),
			CustomerID: 7,
			EventID:    eventID,
			Status:     model.OrderStatusPending,
			GrossTotal: 200,
			NetTotal:   180,
			Lines: []model.OrderLine{
				{TicketTypeID: ttID, Quantity: 2, UnitPrice: 100},
			},
		}

		created, err := repo.Create(ctx, tx, order)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.NotZero(t, created.ID)
		assert.Equal(t, model.OrderStatusPending, created.Status)

		lines, err := repo.ListLinesByOrderID(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, 100.0, lines[0].UnitPrice)
	})

	t.Run("RollbackDiscardsOrderAndLines", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := createTestEvent(t, "Concert")
		ttID := createTestTicketType(t, eventID, 10, 100)

		tx, err := testDB.Begin(ctx)
		require.NoError(t, err)

		order := &model.Order{
			OrderID:    uuid.New(),
			CustomerID: 7,
			EventID:    eventID,
			Status:     model.OrderStatusPending,
			GrossTotal: 100,
			NetTotal:   100,
			Lines:      []model.OrderLine{{TicketTypeID: ttID, Quantity: 1, UnitPrice: 100}},
		}
		created, err := repo.Create(ctx, tx, order)
		require.NoError(t, err)
		require.NoError(t, tx.Rollback(ctx))

		_, err = repo.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	})
}

func TestSetPaymentRef(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testDB)

	t.Run("WritableExactlyOnce", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := createTestEvent(t, "Concert")
		orderID := createTestPendingOrder(t, eventID, time.Now().UTC())

		require.NoError(t, repo.SetPaymentRef(ctx, orderID, "pay-1"))

		// 第二次寫入不管值是什麼都會被 guard 擋下
		err := repo.SetPaymentRef(ctx, orderID, "pay-2")
		assert.ErrorIs(t, err, apperrors.ErrPaymentRefMismatch)

		order, err := repo.FindByID(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, order.PaymentRef)
		assert.Equal(t, "pay-1", *order.PaymentRef)
	})

	t.Run("FindByPaymentRef", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := createTestEvent(t, "Concert")
		orderID := createTestPendingOrder(t, eventID, time.Now().UTC())
		require.NoError(t, repo.SetPaymentRef(ctx, orderID, "pay-xyz"))

		order, err := repo.FindByPaymentRef(ctx, "pay-xyz")
		require.NoError(t, err)
		assert.Equal(t, orderID, order.ID)

		_, err = repo.FindByPaymentRef(ctx, "pay-unknown")
		assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testDB)

	setupTestWithTruncate(t)
	eventID := createTestEvent(t, "Concert")
	orderID := createTestPendingOrder(t, eventID, time.Now().UTC())

	tx, err := testDB.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	locked, err := repo.FindByIDWithLock(ctx, tx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, locked.Status)

	reason := "payment window expired"
	updated, err := repo.UpdateStatus(ctx, tx, orderID, model.OrderStatusCancelled, &reason)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, model.OrderStatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelReason)
	assert.Equal(t, reason, *updated.CancelReason)
}

func TestListExpiredPending(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testDB)

	setupTestWithTruncate(t)
	eventID := createTestEvent(t, "Concert")

	now := time.Now().UTC()
	staleID := createTestPendingOrder(t, eventID, now.Add(-time.Hour))
	createTestPendingOrder(t, eventID, now) // 還沒逾期

	paidID := createTestPendingOrder(t, eventID, now.Add(-time.Hour))
	_, err := testDB.Exec(ctx, `UPDATE orders SET status = 'paid' WHERE id = $1`, paidID)
	require.NoError(t, err)

	ids, err := repo.ListExpiredPending(ctx, now.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []int{staleID}, ids)
}
