package worker

import (
	"context"
	"event-ticket-system/internal/service"
	"event-ticket-system/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type ExpiryWorker interface {
	// 定期掃描逾期未付款的訂單並取消
	Start(ctx context.Context) error
}

type ExpiryWorkerImpl struct {
	service    service.OrderService
	pendingTTL time.Duration
	interval   time.Duration
}

func NewExpiryWorker(service service.OrderService, pendingTTL, interval time.Duration) ExpiryWorker {
	return &ExpiryWorkerImpl{
		service:    service,
		pendingTTL: pendingTTL,
		interval:   interval,
	}
}

func (w *ExpiryWorkerImpl) Start(ctx context.Context) error {
	log := logger.WithComponent("expiry_worker")

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cancelled, err := w.service.ExpirePendingOrders(ctx, w.pendingTTL)
				if err != nil {
					log.Error("expiry sweep failed", zap.Error(err))
					continue
				}
				if cancelled > 0 {
					log.Info("expired pending orders cancelled", zap.Int("count", cancelled))
				}
			}
		}
	}()
	return nil
}
