package service

import (
	"context"
	"encoding/json"
	"errors"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/payment"
	"event-ticket-system/internal/queue"
	"event-ticket-system/internal/repository"
	apperrors "event-ticket-system/pkg/app_errors"
	"event-ticket-system/pkg/logger"
	"fmt"

	"go.uber.org/zap"
)

// PaymentService 付款通知的對帳。通知可能遲到、亂序、重送，
// Apply 對同一個 external ref 重複呼叫任意次數結果相同。
type PaymentService interface {
	// HandleNotification 驗簽、解析並將通知送進隊列，只回報進件結果
	HandleNotification(ctx context.Context, rawPayload []byte, signature string) error
	// Apply 將一筆通知套用到對應訂單
	Apply(ctx context.Context, notification *model.PaymentNotification) error
}

type PaymentServiceImpl struct {
	orders        repository.OrderRepository
	lifecycle     OrderService
	gateway       payment.Gateway
	notifications queue.NotificationQueue
}

func NewPaymentService(
	orders repository.OrderRepository,
	lifecycle OrderService,
	gateway payment.Gateway,
	notifications queue.NotificationQueue,
) PaymentService {
	return &PaymentServiceImpl{
		orders:        orders,
		lifecycle:     lifecycle,
		gateway:       gateway,
		notifications: notifications,
	}
}

// gatewayNotification 閘道原始 payload 的形狀
type gatewayNotification struct {
	ExternalRef       string `json:"external_ref"`
	TransactionStatus string `json:"transaction_status"`
}

func (s *PaymentServiceImpl) HandleNotification(ctx context.Context, rawPayload []byte, signature string) error {
	if !s.gateway.VerifySignature(rawPayload, signature) {
		return apperrors.ErrInvalidSignature
	}

	var raw gatewayNotification
	if err := json.Unmarshal(rawPayload, &raw); err != nil {
		return fmt.Errorf("malformed notification payload: %w", apperrors.ErrInvalidInput)
	}
	if raw.ExternalRef == "" {
		return fmt.Errorf("notification missing external ref: %w", apperrors.ErrInvalidInput)
	}

	var outcome model.PaymentOutcome
	switch raw.TransactionStatus {
	case "settlement", "capture":
		outcome = model.PaymentOutcomeSettled
	case "deny", "cancel", "expire", "failure":
		outcome = model.PaymentOutcomeFailed
	case "pending":
		// 中間狀態，等結果通知
		return nil
	default:
		return fmt.Errorf("unknown transaction status %q: %w", raw.TransactionStatus, apperrors.ErrInvalidInput)
	}

	notification := &model.PaymentNotification{
		ExternalRef: raw.ExternalRef,
		Outcome:     outcome,
	}

	if err := s.notifications.PublishNotification(ctx, notification); err != nil {
		logger.WithComponent("payment").Error("publish notification failed",
			zap.String("external_ref", raw.ExternalRef), zap.Error(err))
		return apperrors.ErrInternalServerError
	}

	return nil
}

func (s *PaymentServiceImpl) Apply(ctx context.Context, notification *model.PaymentNotification) error {
	order, err := s.orders.FindByPaymentRef(ctx, notification.ExternalRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrOrderNotFound) {
			return fmt.Errorf("external ref %s: %w", notification.ExternalRef, apperrors.ErrUnknownOrder)
		}
		return err
	}

	switch notification.Outcome {
	case model.PaymentOutcomeSettled:
		return s.lifecycle.ConfirmPayment(ctx, order.ID, notification.ExternalRef)
	case model.PaymentOutcomeFailed:
		return s.lifecycle.CancelOrder(ctx, order.ID, "payment failed")
	default:
		return fmt.Errorf("unknown payment outcome %q: %w", notification.Outcome, apperrors.ErrInvalidInput)
	}
}
