package model

import (
	"math"
	"time"
)

// DiscountKind 折扣類型
type DiscountKind string

const (
	DiscountKindPercentage  DiscountKind = "percentage"
	DiscountKindFixedAmount DiscountKind = "fixed_amount"
)

func (k DiscountKind) IsValid() bool {
	switch k {
	case DiscountKindPercentage, DiscountKindFixedAmount:
		return true
	}
	return false
}

// DiscountCode 單一活動範圍內的折扣碼
type DiscountCode struct {
	ID         int          `json:"id" db:"id"`
	Code       string       `json:"code" db:"code"`
	EventID    int          `json:"event_id" db:"event_id"`
	Kind       DiscountKind `json:"kind" db:"kind"`
	Value      float64      `json:"value" db:"value"`
	ValidFrom  *time.Time   `json:"valid_from,omitempty" db:"valid_from"`
	ValidTo    *time.Time   `json:"valid_to,omitempty" db:"valid_to"`
	MaxUsage   *int         `json:"max_usage,omitempty" db:"max_usage"`
	UsageCount int          `json:"usage_count" db:"usage_count"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
}

// IsActiveAt 檢查折扣碼在指定日期是否有效（日期區間含頭含尾）
func (d *DiscountCode) IsActiveAt(at time.Time) bool {
	day := truncateToDay(at)
	if d.ValidFrom != nil && day.Before(truncateToDay(*d.ValidFrom)) {
		return false
	}
	if d.ValidTo != nil && day.After(truncateToDay(*d.ValidTo)) {
		return false
	}
	return true
}

// Apply 計算折扣後金額，結果不會低於零
func (d *DiscountCode) Apply(gross float64) float64 {
	var net float64
	switch d.Kind {
	case DiscountKindPercentage:
		net = gross * (1 - d.Value/100)
	case DiscountKindFixedAmount:
		net = gross - d.Value
	default:
		net = gross
	}
	if net < 0 {
		net = 0
	}
	return math.Round(net*100) / 100
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
