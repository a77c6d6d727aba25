package service

import (
	"context"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/repository"
	apperrors "event-ticket-system/pkg/app_errors"
	"time"
)

// DiscountService 折扣碼的驗證與計價。Evaluate 本身不做任何變動，
// 用量消耗在訂單交易內由 OrderService 處理。
type DiscountService interface {
	Evaluate(ctx context.Context, code string, eventID int, grossTotal float64, asOf time.Time) (float64, error)
	Create(ctx context.Context, discount *model.DiscountCode) (*model.DiscountCode, error)
}

type DiscountServiceImpl struct {
	repo repository.DiscountRepository
}

func NewDiscountService(repo repository.DiscountRepository) DiscountService {
	return &DiscountServiceImpl{repo: repo}
}

// Evaluate 驗證順序：存在 -> 活動範圍 -> 有效期。
// 空字串代表未使用折扣碼，原價通過。
func (s *DiscountServiceImpl) Evaluate(ctx context.Context, code string, eventID int, grossTotal float64, asOf time.Time) (float64, error) {
	if code == "" {
		return grossTotal, nil
	}

	discount, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return 0, err
	}

	if discount.EventID != eventID {
		return 0, apperrors.ErrDiscountWrongEvent
	}

	if !discount.IsActiveAt(asOf) {
		return 0, apperrors.ErrDiscountExpired
	}

	return discount.Apply(grossTotal), nil
}

func (s *DiscountServiceImpl) Create(ctx context.Context, discount *model.DiscountCode) (*model.DiscountCode, error) {
	return s.repo.Create(ctx, discount)
}
