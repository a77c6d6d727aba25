package inventory

import (
	"context"
	"event-ticket-system/internal/database"
	"event-ticket-system/internal/repository"

	"github.com/jackc/pgx/v5"
)

// PostgresLedger 以資料列的 guard UPDATE 實作原子保留，
// quantity_sold + n <= quantity_total 的檢查與遞增在同一條 SQL 完成。
type PostgresLedger struct {
	db      database.TxBeginner
	tickets repository.TicketTypeRepository
}

func NewPostgresLedger(db database.TxBeginner, tickets repository.TicketTypeRepository) Ledger {
	return &PostgresLedger{
		db:      db,
		tickets: tickets,
	}
}

func (l *PostgresLedger) Reserve(ctx context.Context, ticketTypeID int, quantity int) (*ReservationToken, error) {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := l.tickets.IncrementSold(ctx, tx, ticketTypeID, quantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return newReservationToken(ticketTypeID, quantity), nil
}

func (l *PostgresLedger) Release(ctx context.Context, token *ReservationToken) error {
	if token == nil {
		return nil
	}
	if !token.markReleased() {
		// 已釋放過，容忍重試
		return nil
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		token.unmarkReleased()
		return err
	}
	defer tx.Rollback(ctx)

	if err := l.tickets.DecrementSold(ctx, tx, token.TicketTypeID, token.Quantity); err != nil {
		token.unmarkReleased()
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		token.unmarkReleased()
		return err
	}

	return nil
}
