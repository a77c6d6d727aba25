package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxStub 讓 service 測試不需要真的資料庫連線。
// repository mock 只把 tx 當 opaque handle 傳遞，所以查詢方法都是 no-op。
type TxStub struct {
	Commits   int
	Rollbacks int
	CommitErr error
}

func NewTxStub() *TxStub {
	return &TxStub{}
}

func (t *TxStub) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *TxStub) Commit(ctx context.Context) error {
	t.Commits++
	return t.CommitErr
}

func (t *TxStub) Rollback(ctx context.Context) error {
	t.Rollbacks++
	return pgx.ErrTxClosed
}

func (t *TxStub) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *TxStub) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *TxStub) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *TxStub) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *TxStub) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *TxStub) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *TxStub) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (t *TxStub) Conn() *pgx.Conn { return nil }

// TxBeginnerStub 發出 TxStub 的 database.TxBeginner
type TxBeginnerStub struct {
	Tx       *TxStub
	BeginErr error
}

func NewTxBeginnerStub() *TxBeginnerStub {
	return &TxBeginnerStub{Tx: NewTxStub()}
}

func (b *TxBeginnerStub) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	if b.BeginErr != nil {
		return nil, b.BeginErr
	}
	return b.Tx, nil
}
