package worker

import (
	"context"
	"errors"
	"event-ticket-system/internal/queue"
	"event-ticket-system/internal/service"
	apperrors "event-ticket-system/pkg/app_errors"
	"event-ticket-system/pkg/logger"

	"go.uber.org/zap"
)

type NotificationWorker interface {
	// 訂閱付款通知隊列
	Start(ctx context.Context) error
}

type NotificationWorkerImpl struct {
	service service.PaymentService
	queue   queue.NotificationQueue
}

func NewNotificationWorker(service service.PaymentService, queue queue.NotificationQueue) NotificationWorker {
	return &NotificationWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeNotifications(ctx)
	if err != nil {
		return err
	}

	log := logger.WithComponent("notification_worker")

	go func() {
		for msg := range msgs {
			err := w.service.Apply(ctx, msg.Data)

			switch {
			case err == nil:
				msg.Ack()
			case errors.Is(err, apperrors.ErrUnknownOrder),
				errors.Is(err, apperrors.ErrInvalidTransition),
				errors.Is(err, apperrors.ErrPaymentRefMismatch),
				errors.Is(err, apperrors.ErrInvalidInput):
				// 重試也不會變好的通知，記下來後結案
				log.Warn("discarding unprocessable notification",
					zap.String("external_ref", msg.Data.ExternalRef),
					zap.Error(err))
				msg.Ack()
			default:
				// 資料庫暫時連不上之類的暫時性錯誤，重試
				log.Error("apply notification failed, requeueing",
					zap.String("external_ref", msg.Data.ExternalRef),
					zap.Error(err))
				msg.Nack(true)
			}
		}
	}()
	return nil
}
