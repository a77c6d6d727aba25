package mocks

import (
	"context"
	"event-ticket-system/internal/model"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderServiceMock struct {
	mock.Mock
}

func NewOrderServiceMock() *OrderServiceMock {
	return &OrderServiceMock{}
}

func (m *OrderServiceMock) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreateOrderResponse), args.Error(1)
}

func (m *OrderServiceMock) OrderList(ctx context.Context) ([]*model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *OrderServiceMock) GetOrderByID(ctx context.Context, id int) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *OrderServiceMock) ConfirmPayment(ctx context.Context, orderID int, externalRef string) error {
	args := m.Called(ctx, orderID, externalRef)
	return args.Error(0)
}

func (m *OrderServiceMock) CancelOrder(ctx context.Context, orderID int, reason string) error {
	args := m.Called(ctx, orderID, reason)
	return args.Error(0)
}

func (m *OrderServiceMock) ExpirePendingOrders(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

type PaymentServiceMock struct {
	mock.Mock
}

func NewPaymentServiceMock() *PaymentServiceMock {
	return &PaymentServiceMock{}
}

func (m *PaymentServiceMock) HandleNotification(ctx context.Context, rawPayload []byte, signature string) error {
	args := m.Called(ctx, rawPayload, signature)
	return args.Error(0)
}

func (m *PaymentServiceMock) Apply(ctx context.Context, notification *model.PaymentNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type DiscountServiceMock struct {
	mock.Mock
}

func NewDiscountServiceMock() *DiscountServiceMock {
	return &DiscountServiceMock{}
}

func (m *DiscountServiceMock) Evaluate(ctx context.Context, code string, eventID int, grossTotal float64, asOf time.Time) (float64, error) {
	args := m.Called(ctx, code, eventID, grossTotal, asOf)
	return args.Get(0).(float64), args.Error(1)
}

func (m *DiscountServiceMock) Create(ctx context.Context, discount *model.DiscountCode) (*model.DiscountCode, error) {
	args := m.Called(ctx, discount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DiscountCode), args.Error(1)
}

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) OpenForSale(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type TicketTypeServiceMock struct {
	mock.Mock
}

func NewTicketTypeServiceMock() *TicketTypeServiceMock {
	return &TicketTypeServiceMock{}
}

func (m *TicketTypeServiceMock) List(ctx context.Context) ([]*model.TicketType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) GetByTicketTypeID(ctx context.Context, ticketTypeID uuid.UUID) (*model.TicketType, error) {
	args := m.Called(ctx, ticketTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) Create(ctx context.Context, ticketType *model.TicketType) (*model.TicketType, error) {
	args := m.Called(ctx, ticketType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) GetRemaining(ctx context.Context, ticketTypeID uuid.UUID) (int, error) {
	args := m.Called(ctx, ticketTypeID)
	return args.Int(0), args.Error(1)
}
