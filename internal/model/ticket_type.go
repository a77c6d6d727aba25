package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketType 活動底下的一種票種（例如 VIP、一般票），各自有獨立的庫存
type TicketType struct {
	ID            int        `json:"id" db:"id"`
	TicketTypeID  uuid.UUID  `json:"ticket_type_id" db:"ticket_type_id"`
	EventID       int        `json:"event_id" db:"event_id"`
	Name          string     `json:"name" db:"name"`
	Price         float64    `json:"price" db:"price"`
	QuantityTotal int        `json:"quantity_total" db:"quantity_total"`
	QuantitySold  int        `json:"quantity_sold" db:"quantity_sold"`
	MaxPerOrder   int        `json:"max_per_order" db:"max_per_order"`
	SaleStartAt   *time.Time `json:"sale_start_at,omitempty" db:"sale_start_at"`
	SaleEndAt     *time.Time `json:"sale_end_at,omitempty" db:"sale_end_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Remaining 剩餘可售數量
func (t *TicketType) Remaining() int {
	return t.QuantityTotal - t.QuantitySold
}

func (t *TicketType) IsDeleted() bool {
	return t.DeletedAt != nil
}

// IsOnSaleAt 檢查銷售時間窗（未設定的邊界視為不限制）
func (t *TicketType) IsOnSaleAt(at time.Time) bool {
	if t.IsDeleted() {
		return false
	}
	if t.SaleStartAt != nil && at.Before(*t.SaleStartAt) {
		return false
	}
	if t.SaleEndAt != nil && at.After(*t.SaleEndAt) {
		return false
	}
	return true
}

// TicketTypeResponse 票種響應（含即時剩餘數量）
type TicketTypeResponse struct {
	ID            int     `json:"id"`
	EventID       int     `json:"event_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	QuantityTotal int     `json:"quantity_total"`
	Remaining     int     `json:"remaining"`
	Available     bool    `json:"available"`
}
