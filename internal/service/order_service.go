package service

import (
	"context"
	"errors"
	"event-ticket-system/internal/cache"
	"event-ticket-system/internal/database"
	"event-ticket-system/internal/inventory"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/payment"
	"event-ticket-system/internal/repository"
	apperrors "event-ticket-system/pkg/app_errors"
	"event-ticket-system/pkg/logger"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// 票種未設定 max_per_order 時的預設單筆上限
const defaultMaxPerOrder = 5

type OrderService interface {
	// CreateOrder 驗證、保留庫存、計價並建立 pending 訂單
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error)
	OrderList(ctx context.Context) ([]*model.Order, error)
	GetOrderByID(ctx context.Context, id int) (*model.Order, error)
	// ConfirmPayment pending -> paid，重送的確認是無害的 no-op
	ConfirmPayment(ctx context.Context, orderID int, externalRef string) error
	// CancelOrder pending -> cancelled，同一筆交易內歸還庫存與折扣用量
	CancelOrder(ctx context.Context, orderID int, reason string) error
	// ExpirePendingOrders 逾期掃描，走與 CancelOrder 相同的補償路徑
	ExpirePendingOrders(ctx context.Context, olderThan time.Duration) (int, error)
}

type OrderServiceImpl struct {
	db           database.TxBeginner
	orders       repository.OrderRepository
	tickets      repository.TicketTypeRepository
	discounts    repository.DiscountRepository
	ledger       inventory.Ledger
	evaluator    DiscountService
	gateway      payment.Gateway
	availability cache.TicketAvailabilityCache
}

func NewOrderService(
	db database.TxBeginner,
	orders repository.OrderRepository,
	tickets repository.TicketTypeRepository,
	discounts repository.DiscountRepository,
	ledger inventory.Ledger,
	evaluator DiscountService,
	gateway payment.Gateway,
	availability cache.TicketAvailabilityCache,
) OrderService {
	return &OrderServiceImpl{
		db:           db,
		orders:       orders,
		tickets:      tickets,
		discounts:    discounts,
		ledger:       ledger,
		evaluator:    evaluator,
		gateway:      gateway,
		availability: availability,
	}
}

func (s *OrderServiceImpl) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	if len(req.Lines) == 0 {
		return nil, apperrors.ErrEmptyOrder
	}

	now := time.Now().UTC()

	// 1. 逐行驗證，第一個違規即失敗
	ticketTypes := make(map[int]*model.TicketType, len(req.Lines))
	for _, line := range req.Lines {
		if _, ok := ticketTypes[line.TicketTypeID]; ok {
			return nil, fmt.Errorf("duplicate ticket type %d: %w", line.TicketTypeID, apperrors.ErrInvalidInput)
		}

		tt, err := s.tickets.FindByID(ctx, line.TicketTypeID)
		if err != nil {
			return nil, err
		}
		if tt.EventID != req.EventID {
			return nil, fmt.Errorf("ticket type %d: %w", tt.ID, apperrors.ErrTicketNotInEvent)
		}

		maxPerOrder := tt.MaxPerOrder
		if maxPerOrder <= 0 {
			maxPerOrder = defaultMaxPerOrder
		}
		if line.Quantity <= 0 || line.Quantity > maxPerOrder {
			return nil, fmt.Errorf("ticket type %d: %w", tt.ID, apperrors.ErrInvalidQuantity)
		}

		if !tt.IsOnSaleAt(now) {
			return nil, fmt.Errorf("ticket type %d: %w", tt.ID, apperrors.ErrSaleNotOpen)
		}

		ticketTypes[line.TicketTypeID] = tt
	}

	// 2. 逐行保留庫存，任何一行失敗就全部歸還
	tokens := make([]*inventory.ReservationToken, 0, len(req.Lines))
	releaseAll := func() {
		// 歸還用 context.Background()，請求被取消也必須執行
		for _, token := range tokens {
			if err := s.ledger.Release(context.Background(), token); err != nil {
				logger.WithComponent("service").Error("release reservation failed",
					zap.Int("ticket_type_id", token.TicketTypeID), zap.Error(err))
			}
		}
	}

	for _, line := range req.Lines {
		token, err := s.ledger.Reserve(ctx, line.TicketTypeID, line.Quantity)
		if err != nil {
			releaseAll()
			if errors.Is(err, apperrors.ErrInsufficientStock) {
				return nil, fmt.Errorf("ticket type %d: %w", line.TicketTypeID, apperrors.ErrInsufficientStock)
			}
			return nil, err
		}
		tokens = append(tokens, token)
	}

	// 3. 以當下票價快照計算總額
	var gross float64
	lines := make([]model.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		tt := ticketTypes[line.TicketTypeID]
		gross += tt.Price * float64(line.Quantity)
		lines = append(lines, model.OrderLine{
			TicketTypeID: tt.ID,
			Quantity:     line.Quantity,
			UnitPrice:    tt.Price,
		})
	}
	gross = math.Round(gross*100) / 100

	net, err := s.evaluator.Evaluate(ctx, req.DiscountCode, req.EventID, gross, now)
	if err != nil {
		releaseAll()
		return nil, err
	}

	order := &model.Order{
		OrderID:    uuid.New(),
		CustomerID: req.CustomerID,
		EventID:    req.EventID,
		Status:     model.OrderStatusPending,
		GrossTotal: gross,
		NetTotal:   net,
		Lines:      lines,
	}
	if req.DiscountCode != "" {
		code := req.DiscountCode
		order.DiscountCode = &code
	}

	// 4. 訂單、明細、折扣用量在同一筆交易內落地
	created, err := s.persistOrder(ctx, order)
	if err != nil {
		releaseAll()
		if errors.Is(err, apperrors.ErrDiscountUsageExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	// 5. 訂單已持久化後才呼叫閘道，失敗走正常取消路徑歸還庫存
	link, err := s.gateway.CreatePaymentLink(ctx, created)
	if err != nil {
		logger.WithComponent("service").Error("create payment link failed",
			zap.Int("order_id", created.ID), zap.Error(err))
		s.cancelAfterGatewayFailure(created.ID, "payment link creation failed")
		return nil, apperrors.ErrInternalServerError
	}

	if err := s.orders.SetPaymentRef(ctx, created.ID, link.ExternalRef); err != nil {
		logger.WithComponent("service").Error("set payment ref failed",
			zap.Int("order_id", created.ID), zap.Error(err))
		s.cancelAfterGatewayFailure(created.ID, "payment reference could not be recorded")
		return nil, apperrors.ErrInternalServerError
	}
	ref := link.ExternalRef
	created.PaymentRef = &ref

	// 6. 同步快取，失敗只記 log，權威計數在資料庫
	for _, line := range created.Lines {
		if err := s.availability.Decrement(ctx, line.TicketTypeID, line.Quantity); err != nil {
			logger.WithComponent("service").Warn("availability cache decrement failed",
				zap.Int("ticket_type_id", line.TicketTypeID), zap.Error(err))
		}
	}

	return &model.CreateOrderResponse{Order: created, PaymentURL: link.URL}, nil
}

func (s *OrderServiceImpl) persistOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := s.orders.Create(ctx, tx, order)
	if err != nil {
		return nil, err
	}

	if order.DiscountCode != nil {
		if err := s.discounts.IncrementUsage(ctx, tx, *order.DiscountCode); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *OrderServiceImpl) cancelAfterGatewayFailure(orderID int, reason string) {
	if err := s.CancelOrder(context.Background(), orderID, reason); err != nil {
		// 取消失敗的 pending 訂單留給逾期掃描收尾
		logger.WithComponent("service").Error("cancel after gateway failure failed",
			zap.Int("order_id", orderID), zap.Error(err))
	}
}

func (s *OrderServiceImpl) OrderList(ctx context.Context) ([]*model.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderServiceImpl) GetOrderByID(ctx context.Context, id int) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines, err := s.orders.ListLinesByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return order, nil
}

func (s *OrderServiceImpl) ConfirmPayment(ctx context.Context, orderID int, externalRef string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	order, err := s.orders.FindByIDWithLock(ctx, tx, orderID)
	if err != nil {
		return err
	}

	// 重送的結果通知：已付款就當作成功
	if order.Status == model.OrderStatusPaid {
		return nil
	}
	if !order.Status.CanTransitionTo(model.OrderStatusPaid) {
		return apperrors.ErrInvalidTransition
	}

	if order.PaymentRef == nil {
		// 首次記錄付款參考
		if err := s.orders.RecordPaymentRef(ctx, tx, orderID, externalRef); err != nil {
			return err
		}
	} else if *order.PaymentRef != externalRef {
		return apperrors.ErrPaymentRefMismatch
	}

	if _, err := s.orders.UpdateStatus(ctx, tx, orderID, model.OrderStatusPaid, nil); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *OrderServiceImpl) CancelOrder(ctx context.Context, orderID int, reason string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	order, err := s.orders.FindByIDWithLock(ctx, tx, orderID)
	if err != nil {
		return err
	}

	// 已取消的訂單再收到取消是無害重送
	if order.Status == model.OrderStatusCancelled {
		return nil
	}
	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		return apperrors.ErrInvalidTransition
	}

	lines, err := s.orders.ListLinesByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}

	if _, err := s.orders.UpdateStatus(ctx, tx, orderID, model.OrderStatusCancelled, &reason); err != nil {
		return err
	}

	// 補償釋放：與狀態轉換同一筆交易，行鎖保證只會發生一次
	for _, line := range lines {
		if err := s.tickets.DecrementSold(ctx, tx, line.TicketTypeID, line.Quantity); err != nil {
			return err
		}
	}

	if order.DiscountCode != nil {
		if err := s.discounts.DecrementUsage(ctx, tx, *order.DiscountCode); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	for _, line := range lines {
		if err := s.availability.Increment(ctx, line.TicketTypeID, line.Quantity); err != nil {
			logger.WithComponent("service").Warn("availability cache increment failed",
				zap.Int("ticket_type_id", line.TicketTypeID), zap.Error(err))
		}
	}

	return nil
}

func (s *OrderServiceImpl) ExpirePendingOrders(ctx context.Context, olderThan time.Duration) (int, error) {
	ids, err := s.orders.ListExpiredPending(ctx, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		err := s.CancelOrder(ctx, id, "payment window expired")
		if err != nil {
			// 掃描與付款確認競爭時訂單可能已經轉為 paid，略過即可
			if errors.Is(err, apperrors.ErrInvalidTransition) || errors.Is(err, apperrors.ErrOrderNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}

	return expired, nil
}
