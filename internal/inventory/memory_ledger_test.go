package inventory

import (
	"context"
	"sync"
	"testing"

	apperrors "event-ticket-system/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ledger := NewMemoryLedger()
		ledger.SetCapacity(1, 10)

		token, err := ledger.Reserve(ctx, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, token.TicketTypeID)
		assert.Equal(t, 3, token.Quantity)
		assert.Equal(t, 3, ledger.Sold(1))
	})

	t.Run("InsufficientStockLeavesCounterUntouched", func(t *testing.T) {
		ledger := NewMemoryLedger()
		ledger.SetCapacity(1, 2)

		_, err := ledger.Reserve(ctx, 1, 3)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
		assert.Equal(t, 0, ledger.Sold(1))
	})

	t.Run("UnknownTicketType", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.Reserve(ctx, 99, 1)
		assert.ErrorIs(t, err, apperrors.ErrTicketTypeNotFound)
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		ledger := NewMemoryLedger()
		ledger.SetCapacity(1, 10)
		_, err := ledger.Reserve(ctx, 1, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
	})
}

func TestMemoryLedgerRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsReservedQuantity", func(t *testing.T) {
		ledger := NewMemoryLedger()
		ledger.SetCapacity(1, 5)

		token, err := ledger.Reserve(ctx, 1, 5)
		require.NoError(t, err)
		require.NoError(t, ledger.Release(ctx, token))
		assert.Equal(t, 0, ledger.Sold(1))
	})

	t.Run("DoubleReleaseIsNoOp", func(t *testing.T) {
		ledger := NewMemoryLedger()
		ledger.SetCapacity(1, 5)

		token, err := ledger.Reserve(ctx, 1, 2)
		require.NoError(t, err)
		require.NoError(t, ledger.Release(ctx, token))
		require.NoError(t, ledger.Release(ctx, token))
		assert.Equal(t, 0, ledger.Sold(1))
	})

	t.Run("NilTokenIsNoOp", func(t *testing.T) {
		ledger := NewMemoryLedger()
		assert.NoError(t, ledger.Release(ctx, nil))
	})
}

// Many buyers competing for a small pool: reservations never exceed capacity.
func TestMemoryLedgerConcurrentNoOversell(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	totalStock := 10
	concurrentBuyers := 200
	ledger.SetCapacity(1, totalStock)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	failCount := 0

	for i := 0; i < concurrentBuyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Reserve(ctx, 1, 1)

			mu.Lock()
			if err == nil {
				successCount++
			} else {
				failCount++
			}
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, totalStock, successCount, "successful reservations should equal total stock")
	assert.Equal(t, concurrentBuyers-totalStock, failCount)
	assert.Equal(t, totalStock, ledger.Sold(1))
}

// Two buyers racing for the last unit: exactly one wins.
func TestMemoryLedgerLastUnitSingleWinner(t *testing.T) {
	ctx := context.Background()

	for round := 0; round < 50; round++ {
		ledger := NewMemoryLedger()
		ledger.SetCapacity(1, 1)

		var wg sync.WaitGroup
		errs := make([]error, 2)

		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				_, errs[idx] = ledger.Reserve(ctx, 1, 1)
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
			}
		}
		require.Equal(t, 1, winners, "exactly one buyer should win the last unit")
		assert.Equal(t, 1, ledger.Sold(1))
	}
}

func TestMemoryLedgerConcurrentReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	ledger.SetCapacity(1, 5)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := ledger.Reserve(ctx, 1, 1)
			if err == nil {
				_ = ledger.Release(ctx, token)
			}
		}()
	}
	wg.Wait()

	// Every successful reservation was released, counter must drain to zero.
	assert.Equal(t, 0, ledger.Sold(1))
}
