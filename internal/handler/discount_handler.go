package handler

import (
	"errors"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/service"
	apperrors "event-ticket-system/pkg/app_errors"
	"event-ticket-system/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DiscountHandler struct {
	service service.DiscountService
}

func NewDiscountHandler(service service.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: service}
}

func (h *DiscountHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("discounts", h.Create)
	}
}

// CreateDiscountRequest 建立折扣碼請求
type CreateDiscountRequest struct {
	Code      string     `json:"code" binding:"required"`
	EventID   int        `json:"event_id" binding:"required"`
	Kind      string     `json:"kind" binding:"required"`
	Value     float64    `json:"value" binding:"required"`
	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
	MaxUsage  *int       `json:"max_usage"`
}

func (h *DiscountHandler) Create(c *gin.Context) {
	var req CreateDiscountRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	discount := &model.DiscountCode{
		Code:      req.Code,
		EventID:   req.EventID,
		Kind:      model.DiscountKind(req.Kind),
		Value:     req.Value,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		MaxUsage:  req.MaxUsage,
	}
	created, err := h.service.Create(c, discount)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DiscountHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
