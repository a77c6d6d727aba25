package repository

import (
	"context"
	"event-ticket-system/internal/model"
	apperrors "event-ticket-system/pkg/app_errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType *model.TicketType) (*model.TicketType, error)
	List(ctx context.Context) ([]*model.TicketType, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.TicketType, error)
	FindByID(ctx context.Context, id int) (*model.TicketType, error)
	FindByTicketTypeID(ctx context.Context, ticketTypeID uuid.UUID) (*model.TicketType, error)

	// Counter entry points. quantity_sold 只能透過這兩個方法變動，
	// 其餘程式碼不得 read-modify-write 這個欄位。
	IncrementSold(ctx context.Context, tx pgx.Tx, id int, quantity int) error
	DecrementSold(ctx context.Context, tx pgx.Tx, id int, quantity int) error
}

type TicketTypeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &TicketTypeRepositoryImpl{
		pool: pool,
	}
}

func (r *TicketTypeRepositoryImpl) Create(ctx context.Context, ticketType *model.TicketType) (*model.TicketType, error) {
	query := `
		INSERT INTO ticket_types (
		ticket_type_id, event_id, name, price, quantity_total, quantity_sold,
		max_per_order, sale_start_at, sale_end_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8)
		RETURNING id, ticket_type_id, event_id, name, price, quantity_total,
			quantity_sold, max_per_order, sale_start_at, sale_end_at, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		ticketType.TicketTypeID, ticketType.EventID, ticketType.Name, ticketType.Price,
		ticketType.QuantityTotal, ticketType.MaxPerOrder, ticketType.SaleStartAt, ticketType.SaleEndAt,
	).Scan(
		&ticketType.ID,
		&ticketType.TicketTypeID,
		&ticketType.EventID,
		&ticketType.Name,
		&ticketType.Price,
		&ticketType.QuantityTotal,
		&ticketType.QuantitySold,
		&ticketType.MaxPerOrder,
		&ticketType.SaleStartAt,
		&ticketType.SaleEndAt,
		&ticketType.CreatedAt,
		&ticketType.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return ticketType, nil
}

func (r *TicketTypeRepositoryImpl) List(ctx context.Context) ([]*model.TicketType, error) {
	query := `
		SELECT id, ticket_type_id, event_id, name, price, quantity_total,
			quantity_sold, max_per_order, sale_start_at, sale_end_at,
			created_at, updated_at, deleted_at
		FROM ticket_types
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTicketTypes(rows)
}

func (r *TicketTypeRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.TicketType, error) {
	query := `
		SELECT id, ticket_type_id, event_id, name, price, quantity_total,
			quantity_sold, max_per_order, sale_start_at, sale_end_at,
			created_at, updated_at, deleted_at
		FROM ticket_types
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTicketTypes(rows)
}

func scanTicketTypes(rows pgx.Rows) ([]*model.TicketType, error) {
	ticketTypes := make([]*model.TicketType, 0)

	for rows.Next() {
		var tt model.TicketType
		err := rows.Scan(
			&tt.ID,
			&tt.TicketTypeID,
			&tt.EventID,
			&tt.Name,
			&tt.Price,
			&tt.QuantityTotal,
			&tt.QuantitySold,
			&tt.MaxPerOrder,
			&tt.SaleStartAt,
			&tt.SaleEndAt,
			&tt.CreatedAt,
			&tt.UpdatedAt,
			&tt.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		ticketTypes = append(ticketTypes, &tt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ticketTypes, nil
}

func (r *TicketTypeRepositoryImpl) FindByID(ctx context.Context, id int) (*model.TicketType, error) {
	query := `
		SELECT id, ticket_type_id, event_id, name, price, quantity_total,
			quantity_sold, max_per_order, sale_start_at, sale_end_at,
			created_at, updated_at, deleted_at
		FROM ticket_types
		WHERE id = $1 AND deleted_at IS NULL
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *TicketTypeRepositoryImpl) FindByTicketTypeID(ctx context.Context, ticketTypeID uuid.UUID) (*model.TicketType, error) {
	query := `
		SELECT id, ticket_type_id, event_id, name, price, quantity_total,
			quantity_sold, max_per_order, sale_start_at, sale_end_at,
			created_at, updated_at, deleted_at
		FROM ticket_types
		WHERE ticket_type_id = $1 AND deleted_at IS NULL
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, ticketTypeID))
}

func (r *TicketTypeRepositoryImpl) scanOne(row pgx.Row) (*model.TicketType, error) {
	var tt model.TicketType
	err := row.Scan(
		&tt.ID,
		&tt.TicketTypeID,
		&tt.EventID,
		&tt.Name,
		&tt.Price,
		&tt.QuantityTotal,
		&tt.QuantitySold,
		&tt.MaxPerOrder,
		&tt.SaleStartAt,
		&tt.SaleEndAt,
		&tt.CreatedAt,
		&tt.UpdatedAt,
		&tt.DeletedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketTypeNotFound
		}
		return nil, err
	}

	return &tt, nil
}

// IncrementSold 原子性的 check-and-increment：同一條 UPDATE 內檢查
// quantity_sold + n <= quantity_total，不滿足時影響 0 列、不做任何變動。
// 兩個併發請求搶最後一張票時，行鎖保證恰好一個成功。
func (r *TicketTypeRepositoryImpl) IncrementSold(ctx context.Context, tx pgx.Tx, id int, quantity int) error {
	if quantity <= 0 {
		return apperrors.ErrInvalidQuantity
	}

	query := `
		UPDATE ticket_types
		SET quantity_sold = quantity_sold + $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
		  AND quantity_sold + $1 <= quantity_total
	`

	result, err := tx.Exec(ctx, query, quantity, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInsufficientStock
	}

	return nil
}

// DecrementSold 補償釋放。quantity_sold >= n 的 guard 防止計數器變負。
func (r *TicketTypeRepositoryImpl) DecrementSold(ctx context.Context, tx pgx.Tx, id int, quantity int) error {
	if quantity <= 0 {
		return apperrors.ErrInvalidQuantity
	}

	query := `
		UPDATE ticket_types
		SET quantity_sold = quantity_sold - $1, updated_at = $2
		WHERE id = $3 AND quantity_sold >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketTypeNotFound
	}

	return nil
}
