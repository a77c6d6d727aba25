package main

import (
	"context"
	"event-ticket-system/config"
	"event-ticket-system/internal/cache"
	"event-ticket-system/internal/database"
	"event-ticket-system/internal/handler"
	"event-ticket-system/internal/inventory"
	"event-ticket-system/internal/payment"
	"event-ticket-system/internal/queue"
	"event-ticket-system/internal/repository"
	"event-ticket-system/internal/service"
	"event-ticket-system/internal/worker"
	"log"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repository 層
	eventRepo := repository.NewEventRepository(pool)
	ticketTypeRepo := repository.NewTicketTypeRepository(pool)
	discountRepo := repository.NewDiscountRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	// 基礎設施
	availability := cache.NewTicketAvailabilityCache(rdb)
	ledger := inventory.NewPostgresLedger(pool, ticketTypeRepo)
	gateway := payment.NewHTTPGateway(cfg.Payment.BaseURL, cfg.Payment.ServerKey, cfg.Payment.Timeout)

	notificationQueue, err := queue.NewRedisStreamNotificationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize notification queue: %v", err)
	}

	// Service 層
	eventService := service.NewEventService(eventRepo, ticketTypeRepo, availability)
	ticketTypeService := service.NewTicketTypeService(ticketTypeRepo, availability)
	discountService := service.NewDiscountService(discountRepo)
	orderService := service.NewOrderService(
		pool, orderRepo, ticketTypeRepo, discountRepo,
		ledger, discountService, gateway, availability,
	)
	paymentService := service.NewPaymentService(orderRepo, orderService, gateway, notificationQueue)

	// Worker
	notificationWorker := worker.NewNotificationWorker(paymentService, notificationQueue)
	if err := notificationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}
	expiryWorker := worker.NewExpiryWorker(orderService, cfg.Order.PendingTTL, cfg.Order.SweepInterval)
	if err := expiryWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start expiry worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewTicketTypeHandler(ticketTypeService).RegisterRoutes(router)
	handler.NewDiscountHandler(discountService).RegisterRoutes(router)
	handler.NewOrderHandler(orderService).RegisterRoutes(router)
	handler.NewWebhookHandler(paymentService).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
