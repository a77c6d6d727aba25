package inventory

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// ReservationToken 記錄一次保留的票種與數量，釋放以 token 為單位且具冪等性。
type ReservationToken struct {
	ID           uuid.UUID
	TicketTypeID int
	Quantity     int

	released atomic.Bool
}

func newReservationToken(ticketTypeID, quantity int) *ReservationToken {
	return &ReservationToken{
		ID:           uuid.New(),
		TicketTypeID: ticketTypeID,
		Quantity:     quantity,
	}
}

// markReleased 回傳 true 表示本次呼叫取得釋放權，重複釋放會拿到 false。
func (t *ReservationToken) markReleased() bool {
	return t.released.CompareAndSwap(false, true)
}

func (t *ReservationToken) unmarkReleased() {
	t.released.Store(false)
}

// Ledger 每個票種的庫存計數器唯一的變動入口。
// check-and-increment 對同票種的所有 Reserve/Release 而言是單一原子步驟：
// 搶最後一張票的兩個併發請求恰好一個成功、一個拿到 ErrInsufficientStock。
type Ledger interface {
	// Reserve 原子性檢查剩餘數量並扣走 quantity，失敗時不做任何變動。
	Reserve(ctx context.Context, ticketTypeID int, quantity int) (*ReservationToken, error)
	// Release 歸還 token 記錄的數量。同一個 token 重複釋放是 no-op，不是錯誤。
	Release(ctx context.Context, token *ReservationToken) error
}
