package mocks

import (
	"context"
	"event-ticket-system/internal/inventory"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/payment"
	"event-ticket-system/internal/queue"

	"github.com/stretchr/testify/mock"
)

type GatewayMock struct {
	mock.Mock
}

func NewGatewayMock() *GatewayMock {
	return &GatewayMock{}
}

func (m *GatewayMock) CreatePaymentLink(ctx context.Context, order *model.Order) (*payment.PaymentLink, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentLink), args.Error(1)
}

func (m *GatewayMock) VerifySignature(payload []byte, signature string) bool {
	args := m.Called(payload, signature)
	return args.Bool(0)
}

type LedgerMock struct {
	mock.Mock
}

func NewLedgerMock() *LedgerMock {
	return &LedgerMock{}
}

func (m *LedgerMock) Reserve(ctx context.Context, ticketTypeID int, quantity int) (*inventory.ReservationToken, error) {
	args := m.Called(ctx, ticketTypeID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ReservationToken), args.Error(1)
}

func (m *LedgerMock) Release(ctx context.Context, token *inventory.ReservationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type NotificationQueueMock struct {
	mock.Mock
}

func NewNotificationQueueMock() *NotificationQueueMock {
	return &NotificationQueueMock{}
}

func (m *NotificationQueueMock) PublishNotification(ctx context.Context, notification *model.PaymentNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationQueueMock) SubscribeNotifications(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}

type AvailabilityCacheMock struct {
	mock.Mock
}

func NewAvailabilityCacheMock() *AvailabilityCacheMock {
	return &AvailabilityCacheMock{}
}

func (m *AvailabilityCacheMock) WarmUp(ctx context.Context, ticketTypeID int, remaining int, price float64) error {
	args := m.Called(ctx, ticketTypeID, remaining, price)
	return args.Error(0)
}

func (m *AvailabilityCacheMock) GetRemaining(ctx context.Context, ticketTypeID int) (int, error) {
	args := m.Called(ctx, ticketTypeID)
	return args.Int(0), args.Error(1)
}

func (m *AvailabilityCacheMock) Decrement(ctx context.Context, ticketTypeID int, quantity int) error {
	args := m.Called(ctx, ticketTypeID, quantity)
	return args.Error(0)
}

func (m *AvailabilityCacheMock) Increment(ctx context.Context, ticketTypeID int, quantity int) error {
	args := m.Called(ctx, ticketTypeID, quantity)
	return args.Error(0)
}
