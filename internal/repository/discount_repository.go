package repository

import (
	"context"
	"event-ticket-system/internal/model"
	apperrors "event-ticket-system/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DiscountRepository interface {
	Create(ctx context.Context, discount *model.DiscountCode) (*model.DiscountCode, error)
	FindByCode(ctx context.Context, code string) (*model.DiscountCode, error)

	// Transaction methods：用量計數與訂單寫入在同一筆交易內變動
	IncrementUsage(ctx context.Context, tx pgx.Tx, code string) error
	DecrementUsage(ctx context.Context, tx pgx.Tx, code string) error
}

type DiscountRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewDiscountRepository(pool *pgxpool.Pool) DiscountRepository {
	return &DiscountRepositoryImpl{
		pool: pool,
	}
}

func (r *DiscountRepositoryImpl) Create(ctx context.Context, discount *model.DiscountCode) (*model.DiscountCode, error) {
	if !discount.Kind.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	// 百分比折扣必須落在 [0,100]
	if discount.Kind == model.DiscountKindPercentage && (discount.Value < 0 || discount.Value > 100) {
		return nil, apperrors.ErrInvalidInput
	}
	if discount.Value < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	query := `
		INSERT INTO discount_codes (
			code, event_id, kind, value, valid_from, valid_to, max_usage, usage_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		RETURNING id, code, event_id, kind, value, valid_from, valid_to,
			max_usage, usage_count, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		discount.Code, discount.EventID, discount.Kind, discount.Value,
		discount.ValidFrom, discount.ValidTo, discount.MaxUsage,
	).Scan(
		&discount.ID,
		&discount.Code,
		&discount.EventID,
		&discount.Kind,
		&discount.Value,
		&discount.ValidFrom,
		&discount.ValidTo,
		&discount.MaxUsage,
		&discount.UsageCount,
		&discount.CreatedAt,
		&discount.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return discount, nil
}

func (r *DiscountRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	query := `
		SELECT id, code, event_id, kind, value, valid_from, valid_to,
			max_usage, usage_count, created_at, updated_at
		FROM discount_codes
		WHERE code = $1
	`

	var discount model.DiscountCode
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&discount.ID,
		&discount.Code,
		&discount.EventID,
		&discount.Kind,
		&discount.Value,
		&discount.ValidFrom,
		&discount.ValidTo,
		&discount.MaxUsage,
		&discount.UsageCount,
		&discount.CreatedAt,
		&discount.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrDiscountNotFound
		}
		return nil, err
	}

	return &discount, nil
}

// IncrementUsage 原子性消耗一次用量，max_usage 已滿時影響 0 列。
func (r *DiscountRepositoryImpl) IncrementUsage(ctx context.Context, tx pgx.Tx, code string) error {
	query := `
		UPDATE discount_codes
		SET usage_count = usage_count + 1, updated_at = $1
		WHERE code = $2
		  AND (max_usage IS NULL OR usage_count < max_usage)
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), code)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrDiscountUsageExceeded
	}

	return nil
}

// DecrementUsage 訂單取消時歸還用量。
func (r *DiscountRepositoryImpl) DecrementUsage(ctx context.Context, tx pgx.Tx, code string) error {
	query := `
		UPDATE discount_codes
		SET usage_count = usage_count - 1, updated_at = $1
		WHERE code = $2 AND usage_count > 0
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), code)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrDiscountNotFound
	}

	return nil
}
