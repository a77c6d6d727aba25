package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus 訂單狀態類型
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid 驗證狀態是否有效
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal 終態不可再轉換
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:      {},
		OrderStatusCancelled: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Order 訂單模型，OrderLine 隨訂單一起建立且不可變
type Order struct {
	ID           int         `json:"id" db:"id"`
	OrderID      uuid.UUID   `json:"order_id" db:"order_id"`
	CustomerID   int         `json:"customer_id" db:"customer_id"`
	EventID      int         `json:"event_id" db:"event_id"`
	Status       OrderStatus `json:"status" db:"status"`
	GrossTotal   float64     `json:"gross_total" db:"gross_total"`
	NetTotal     float64     `json:"net_total" db:"net_total"`
	DiscountCode *string     `json:"discount_code,omitempty" db:"discount_code"`
	PaymentRef   *string     `json:"payment_ref,omitempty" db:"payment_ref"`
	CancelReason *string     `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	Lines []OrderLine `json:"lines,omitempty" db:"-"`
}

// OrderLine 訂單明細，unit_price 在下單當下快照，票價日後調整不影響歷史訂單
type OrderLine struct {
	ID           int     `json:"id" db:"id"`
	OrderID      int     `json:"order_id" db:"order_id"`
	TicketTypeID int     `json:"ticket_type_id" db:"ticket_type_id"`
	Quantity     int     `json:"quantity" db:"quantity"`
	UnitPrice    float64 `json:"unit_price" db:"unit_price"`
}

// CreateOrderRequest 創建訂單請求
type CreateOrderRequest struct {
	CustomerID   int                `json:"customer_id" binding:"required"`
	EventID      int                `json:"event_id" binding:"required"`
	Lines        []OrderLineRequest `json:"lines" binding:"required"`
	DiscountCode string             `json:"discount_code"`
}

type OrderLineRequest struct {
	TicketTypeID int `json:"ticket_type_id" binding:"required"`
	Quantity     int `json:"quantity" binding:"required,min=1"`
}

// CreateOrderResponse 訂單響應，付款連結由閘道產生
type CreateOrderResponse struct {
	Order      *Order `json:"order"`
	PaymentURL string `json:"payment_url,omitempty"`
}
