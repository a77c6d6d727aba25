package handler

import (
	"errors"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/service"
	apperrors "event-ticket-system/pkg/app_errors"
	"event-ticket-system/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("orders", h.GetOrders)
		router.GET("orders/:id", h.GetOrder)
		router.POST("orders", h.CreateOrder)
		router.PUT("orders/:id/cancel", h.CancelOrder)
	}
}

// CancelOrderRequest 取消訂單請求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var orderReq model.CreateOrderRequest

	if err := BindJson(c, &orderReq); err != nil {
		return
	}

	created, err := h.service.CreateOrder(c, orderReq)
	if err != nil {
		h.handleOrderError(c, err, "CreateOrder")
		return
	}

	h.handleOrderSuccess(c, created, http.StatusCreated)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	order, err := h.service.GetOrderByID(c, idInt)
	if err != nil {
		h.handleOrderError(c, err, "GetOrder")
		return
	}

	h.handleOrderSuccess(c, order, http.StatusOK)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.service.OrderList(c)
	if err != nil {
		h.handleOrderError(c, err, "GetOrders")
		return
	}

	h.handleOrderSuccess(c, orders, http.StatusOK)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req CancelOrderRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = "cancelled by customer"
	}

	err = h.service.CancelOrder(c, idInt, reason)
	if err != nil {
		h.handleOrderError(c, err, "CancelOrder")
		return
	}

	h.handleOrderSuccess(c, nil, http.StatusOK)
}

// Helper functions

func (h *OrderHandler) handleOrderError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEmptyOrder):
		log.Warn("Empty order")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must contain at least one line"})
	case errors.Is(err, apperrors.ErrInvalidQuantity):
		log.Warn("Invalid quantity")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
	case errors.Is(err, apperrors.ErrTicketNotInEvent):
		log.Warn("Ticket type not in event")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket type does not belong to event"})
	case errors.Is(err, apperrors.ErrSaleNotOpen):
		log.Warn("Sale not open")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket type is not on sale"})
	case errors.Is(err, apperrors.ErrDiscountExpired):
		log.Warn("Discount expired")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount code is not valid at this time"})
	case errors.Is(err, apperrors.ErrDiscountWrongEvent):
		log.Warn("Discount wrong event")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount code does not apply to this event"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrDiscountNotFound):
		log.Warn("Discount not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Discount code not found"})
	case errors.Is(err, apperrors.ErrTicketTypeNotFound):
		log.Warn("Ticket type not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket type not found"})
	case errors.Is(err, apperrors.ErrOrderNotFound):
		log.Warn("Order not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, apperrors.ErrInsufficientStock):
		log.Warn("Insufficient stock")
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
	case errors.Is(err, apperrors.ErrDiscountUsageExceeded):
		log.Warn("Discount usage exceeded")
		c.JSON(http.StatusConflict, gin.H{"error": "Discount code usage limit reached"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		log.Warn("Invalid status transition")
		c.JSON(http.StatusConflict, gin.H{"error": "Order status does not allow this operation"})
	case errors.Is(err, apperrors.ErrPersistenceFailed):
		log.Error("Persistence failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Order could not be persisted"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *OrderHandler) handleOrderSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
