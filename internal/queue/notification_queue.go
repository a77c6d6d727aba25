package queue

import (
	"context"
	"event-ticket-system/internal/model"
)

type Delivery struct {
	Data *model.PaymentNotification
	Ack  func()
	Nack func(requeue bool)
}

// NotificationQueue webhook 進件與對帳之間的緩衝。
// 閘道本來就會重送通知，重投遞由冪等的狀態機吸收。
type NotificationQueue interface {
	// 發送通知到隊列
	PublishNotification(ctx context.Context, notification *model.PaymentNotification) error
	// 訂閱通知隊列
	SubscribeNotifications(ctx context.Context) (<-chan Delivery, error)
}

type MemoryNotificationQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.PaymentNotification
}

func NewMemoryNotificationQueue(bufferSize int) NotificationQueue {
	return &MemoryNotificationQueueImpl{
		ch: make(chan *model.PaymentNotification, bufferSize),
	}
}

func (q *MemoryNotificationQueueImpl) PublishNotification(ctx context.Context, notification *model.PaymentNotification) error {
	select {
	case q.ch <- notification:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryNotificationQueueImpl) SubscribeNotifications(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case notification, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: notification,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- notification // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
