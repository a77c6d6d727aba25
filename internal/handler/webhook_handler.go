package handler

import (
	"errors"
	"event-ticket-system/internal/service"
	apperrors "event-ticket-system/pkg/app_errors"
	"event-ticket-system/pkg/logger"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignatureHeader 付款閘道在通知上帶的簽章標頭
const SignatureHeader = "X-Gateway-Signature"

type WebhookHandler struct {
	service service.PaymentService
}

func NewWebhookHandler(service service.PaymentService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

func (h *WebhookHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("payments/notifications", h.HandleNotification)
	}
}

// HandleNotification 只做驗簽與進件，套用結果不回給閘道。
// 閘道收到 200 就不會再重送這一筆。
func (h *WebhookHandler) HandleNotification(c *gin.Context) {
	log := logger.WithComponent("handler").With(zap.String("operation", "HandleNotification"))

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warn("failed to read notification body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	signature := c.GetHeader(SignatureHeader)

	err = h.service.HandleNotification(c, payload, signature)
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, apperrors.ErrInvalidSignature):
		log.Warn("invalid notification signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("malformed notification", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification payload"})
	default:
		log.Error("notification intake failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
