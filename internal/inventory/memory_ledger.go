package inventory

import (
	"context"
	apperrors "event-ticket-system/pkg/app_errors"
	"sync"
	"sync/atomic"
)

type memoryCounter struct {
	total int64
	sold  atomic.Int64
}

// MemoryLedger CAS loop 版的庫存帳本，不依賴外部儲存。
// 測試與單機部署使用；持久化部署用 PostgresLedger。
type MemoryLedger struct {
	mu       sync.RWMutex
	counters map[int]*memoryCounter
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		counters: make(map[int]*memoryCounter),
	}
}

// SetCapacity 登記票種的總量。已登記過的票種會被重設。
func (l *MemoryLedger) SetCapacity(ticketTypeID int, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters[ticketTypeID] = &memoryCounter{total: int64(total)}
}

// Sold 目前已保留數量，僅供測試斷言。
func (l *MemoryLedger) Sold(ticketTypeID int) int {
	c, ok := l.counter(ticketTypeID)
	if !ok {
		return 0
	}
	return int(c.sold.Load())
}

func (l *MemoryLedger) counter(ticketTypeID int) (*memoryCounter, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.counters[ticketTypeID]
	return c, ok
}

func (l *MemoryLedger) Reserve(ctx context.Context, ticketTypeID int, quantity int) (*ReservationToken, error) {
	if quantity <= 0 {
		return nil, apperrors.ErrInvalidQuantity
	}

	c, ok := l.counter(ticketTypeID)
	if !ok {
		return nil, apperrors.ErrTicketTypeNotFound
	}

	// compare-and-swap loop：檢查與遞增之間被別人搶先就重來
	for {
		sold := c.sold.Load()
		if sold+int64(quantity) > c.total {
			return nil, apperrors.ErrInsufficientStock
		}
		if c.sold.CompareAndSwap(sold, sold+int64(quantity)) {
			return newReservationToken(ticketTypeID, quantity), nil
		}
	}
}

func (l *MemoryLedger) Release(ctx context.Context, token *ReservationToken) error {
	if token == nil {
		return nil
	}
	if !token.markReleased() {
		return nil
	}

	c, ok := l.counter(token.TicketTypeID)
	if !ok {
		token.unmarkReleased()
		return apperrors.ErrTicketTypeNotFound
	}

	c.sold.Add(-int64(token.Quantity))
	return nil
}

// ReleaseQuantity 不經 token 的補償釋放，對應訂單取消時按明細歸還。
func (l *MemoryLedger) ReleaseQuantity(ticketTypeID int, quantity int) error {
	c, ok := l.counter(ticketTypeID)
	if !ok {
		return apperrors.ErrTicketTypeNotFound
	}
	c.sold.Add(-int64(quantity))
	return nil
}
