package repository

import (
	"context"
	"event-ticket-system/internal/model"
	apperrors "event-ticket-system/pkg/app_errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	List(ctx context.Context) ([]*model.Order, error)
	ListByCustomerID(ctx context.Context, customerID int) ([]*model.Order, error)
	FindByID(ctx context.Context, id int) (*model.Order, error)
	FindByPaymentRef(ctx context.Context, paymentRef string) (*model.Order, error)
	ListLinesByOrderID(ctx context.Context, orderID int) ([]model.OrderLine, error)
	ListExpiredPending(ctx context.Context, before time.Time) ([]int, error)
	SetPaymentRef(ctx context.Context, id int, paymentRef string) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Order, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.OrderStatus, cancelReason *string) (*model.Order, error)
	RecordPaymentRef(ctx context.Context, tx pgx.Tx, id int, paymentRef string) error
}

type OrderRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &OrderRepositoryImpl{
		pool: pool,
	}
}

const orderColumns = `id, order_id, customer_id, event_id, status, gross_total, net_total,
		discount_code, payment_ref, cancel_reason, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.OrderID,
		&order.CustomerID,
		&order.EventID,
		&order.Status,
		&order.GrossTotal,
		&order.NetTotal,
		&order.DiscountCode,
		&order.PaymentRef,
		&order.CancelReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create 訂單與明細在同一筆交易內寫入，兩者只會一起成功或一起失敗。
func (r *OrderRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error) {
	query := `
		INSERT INTO orders (
			order_id, customer_id, event_id, status, gross_total, net_total, discount_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + orderColumns

	created, err := scanOrder(tx.QueryRow(ctx, query,
		order.OrderID, order.CustomerID, order.EventID, order.Status,
		order.GrossTotal, order.NetTotal, order.DiscountCode,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_lines (order_id, ticket_type_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = created.ID
		err := tx.QueryRow(ctx, lineQuery,
			created.ID, line.TicketTypeID, line.Quantity, line.UnitPrice,
		).Scan(&line.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create order line: %w", err)
		}
	}

	created.Lines = order.Lines
	return created, nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context) ([]*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *OrderRepositoryImpl) ListByCustomerID(ctx context.Context, customerID int) ([]*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]*model.Order, error) {
	var orders []*model.Order

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) FindByPaymentRef(ctx context.Context, paymentRef string) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE payment_ref = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, paymentRef))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`

	order, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) ListLinesByOrderID(ctx context.Context, orderID int) ([]model.OrderLine, error) {
	query := `
		SELECT id, order_id, ticket_type_id, quantity, unit_price
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]model.OrderLine, 0)

	for rows.Next() {
		var line model.OrderLine
		err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.TicketTypeID,
			&line.Quantity,
			&line.UnitPrice,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// ListExpiredPending 回傳在指定時間前建立、仍停留在 pending 的訂單 id，供逾期掃描取消。
func (r *OrderRepositoryImpl) ListExpiredPending(ctx context.Context, before time.Time) ([]int, error) {
	query := `
		SELECT id
		FROM orders
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, model.OrderStatusPending, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

const setPaymentRefQuery = `
		UPDATE orders
		SET payment_ref = $1, updated_at = $2
		WHERE id = $3 AND payment_ref IS NULL
	`

// SetPaymentRef 付款參考只能寫入一次，payment_ref IS NULL 的 guard 保證不可變。
func (r *OrderRepositoryImpl) SetPaymentRef(ctx context.Context, id int, paymentRef string) error {
	result, err := r.pool.Exec(ctx, setPaymentRefQuery, paymentRef, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPaymentRefMismatch
	}

	return nil
}

// RecordPaymentRef 與 SetPaymentRef 相同，但在呼叫端已持有行鎖的交易內執行。
func (r *OrderRepositoryImpl) RecordPaymentRef(ctx context.Context, tx pgx.Tx, id int, paymentRef string) error {
	result, err := tx.Exec(ctx, setPaymentRefQuery, paymentRef, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPaymentRefMismatch
	}

	return nil
}

// UpdateStatus 呼叫端必須先以 FindByIDWithLock 取鎖並用 CanTransitionTo 檢查過。
func (r *OrderRepositoryImpl) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	id int,
	status model.OrderStatus,
	cancelReason *string,
) (*model.Order, error) {
	query := `
		UPDATE orders
		SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + orderColumns

	order, err := scanOrder(tx.QueryRow(ctx, query, status, cancelReason, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}
