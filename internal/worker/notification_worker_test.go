package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"event-ticket-system/internal/mocks"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/queue"
	"event-ticket-system/internal/worker"
	apperrors "event-ticket-system/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationWorkerAppliesDeliveries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewMemoryNotificationQueue(10)
	mockService := mocks.NewPaymentServiceMock()

	applied := make(chan struct{})
	mockService.On("Apply", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { close(applied) }).
		Return(nil).Once()

	w := worker.NewNotificationWorker(mockService, q)
	require.NoError(t, w.Start(ctx))

	notification := &model.PaymentNotification{
		ExternalRef: "pay-1",
		Outcome:     model.PaymentOutcomeSettled,
	}
	require.NoError(t, q.PublishNotification(ctx, notification))

	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("worker did not apply the notification in time")
	}
	mockService.AssertExpectations(t)
}

func TestNotificationWorkerDiscardsUnprocessable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewMemoryNotificationQueue(10)
	mockService := mocks.NewPaymentServiceMock()

	var calls atomic.Int32
	mockService.On("Apply", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { calls.Add(1) }).
		Return(apperrors.ErrUnknownOrder)

	w := worker.NewNotificationWorker(mockService, q)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.PublishNotification(ctx, &model.PaymentNotification{
		ExternalRef: "pay-ghost",
		Outcome:     model.PaymentOutcomeSettled,
	}))

	// 無法處理的通知 Ack 掉就好，不應該重回隊列
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNotificationWorkerRetriesTransientFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewMemoryNotificationQueue(10)
	mockService := mocks.NewPaymentServiceMock()

	var calls atomic.Int32
	done := make(chan struct{})
	mockService.On("Apply", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { calls.Add(1) }).
		Return(errors.New("db connection refused")).Once()
	mockService.On("Apply", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			calls.Add(1)
			close(done)
		}).
		Return(nil).Once()

	w := worker.NewNotificationWorker(mockService, q)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.PublishNotification(ctx, &model.PaymentNotification{
		ExternalRef: "pay-flaky",
		Outcome:     model.PaymentOutcomeSettled,
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker should redeliver after a transient failure")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}
