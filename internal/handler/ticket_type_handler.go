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
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketTypeHandler struct {
	service service.TicketTypeService
}

func NewTicketTypeHandler(service service.TicketTypeService) *TicketTypeHandler {
	return &TicketTypeHandler{service: service}
}

func (h *TicketTypeHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("ticket-types", h.List)
		router.GET("ticket-types/:uuid", h.GetByTicketTypeID)
		router.GET("ticket-types/:uuid/remaining", h.GetRemaining)
		router.POST("ticket-types", h.Create)
	}
}

// CreateTicketTypeRequest 建立票種請求
type CreateTicketTypeRequest struct {
	EventID       int        `json:"event_id" binding:"required"`
	Name          string     `json:"name" binding:"required"`
	Price         float64    `json:"price" binding:"required"`
	QuantityTotal int        `json:"quantity_total" binding:"required,min=1"`
	MaxPerOrder   int        `json:"max_per_order"`
	SaleStartAt   *time.Time `json:"sale_start_at"`
	SaleEndAt     *time.Time `json:"sale_end_at"`
}

func (h *TicketTypeHandler) List(c *gin.Context) {
	ticketTypes, err := h.service.List(c)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, ticketTypes)
}

func (h *TicketTypeHandler) GetByTicketTypeID(c *gin.Context) {
	uuidStr := c.Param("uuid")
	ticketTypeID, err := uuid.Parse(uuidStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket type uuid"})
		return
	}
	ticketType, err := h.service.GetByTicketTypeID(c, ticketTypeID)
	if err != nil {
		h.handleError(c, err, "GetByTicketTypeID")
		return
	}
	c.JSON(http.StatusOK, ticketType)
}

func (h *TicketTypeHandler) GetRemaining(c *gin.Context) {
	uuidStr := c.Param("uuid")
	ticketTypeID, err := uuid.Parse(uuidStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket type uuid"})
		return
	}
	remaining, err := h.service.GetRemaining(c, ticketTypeID)
	if err != nil {
		h.handleError(c, err, "GetRemaining")
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

func (h *TicketTypeHandler) Create(c *gin.Context) {
	var req CreateTicketTypeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticketType := &model.TicketType{
		EventID:       req.EventID,
		Name:          req.Name,
		Price:         req.Price,
		QuantityTotal: req.QuantityTotal,
		MaxPerOrder:   req.MaxPerOrder,
		SaleStartAt:   req.SaleStartAt,
		SaleEndAt:     req.SaleEndAt,
	}
	created, err := h.service.Create(c, ticketType)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TicketTypeHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketTypeNotFound):
		log.Warn("Ticket type not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket type not found"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
