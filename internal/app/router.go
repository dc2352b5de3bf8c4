package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"dispatch/internal/handler"
	"dispatch/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PaymentHandler  *handler.PaymentHandler
	DeliveryHandler *handler.DeliveryHandler
	ClientHandler   *handler.ClientHandler
	RiderHandler    *handler.RiderHandler
	ReportHandler   *handler.ReportHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.NewRelic(deps.NewRelicApp))
	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		payments := v1.Group("/payments")
		{
			payments.GET("/dashboard", deps.PaymentHandler.GetDashboard)
			payments.GET("/summary", deps.PaymentHandler.GetSummary)

			payments.GET("/riders-payments", deps.PaymentHandler.GetRiderStatements)
			payments.GET("/riders-payments/:id", deps.PaymentHandler.GetRiderPaymentDetails)
			payments.POST("/riders-payments/:id/settle", deps.PaymentHandler.SettleRiderPayments)

			payments.GET("/clients-payments", deps.PaymentHandler.GetClientStatements)
			payments.GET("/clients-payments/:id", deps.PaymentHandler.GetClientPaymentDetails)
			payments.POST("/clients-payments/:id/receive", deps.PaymentHandler.ReceiveClientPayments)
			payments.POST("/clients-payments/:id/settlement", deps.PaymentHandler.UpdateClientSettlement)

			payments.POST("", deps.PaymentHandler.CreatePayment)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
			payments.PATCH("/:id", deps.PaymentHandler.PatchPayment)
			payments.DELETE("/:id", deps.PaymentHandler.DeletePayment)
		}

		deliveries := v1.Group("/deliveries")
		{
			deliveries.POST("", deps.DeliveryHandler.CreateDelivery)
			deliveries.GET("", deps.DeliveryHandler.ListDeliveries)
			deliveries.GET("/states", deps.DeliveryHandler.ListStates)
			deliveries.GET("/:id", deps.DeliveryHandler.GetDelivery)
			deliveries.POST("/:id/assign", deps.DeliveryHandler.AssignRider)
			deliveries.PATCH("/:id/state", deps.DeliveryHandler.UpdateState)
			deliveries.POST("/:id/cancel", deps.DeliveryHandler.CancelDelivery)
		}

		clients := v1.Group("/clients")
		{
			clients.POST("", deps.ClientHandler.CreateClient)
			clients.GET("", deps.ClientHandler.ListClients)
			clients.GET("/:id", deps.ClientHandler.GetClient)
		}

		riders := v1.Group("/riders")
		{
			riders.POST("", deps.RiderHandler.CreateRider)
			riders.GET("", deps.RiderHandler.ListRiders)
			riders.GET("/:id", deps.RiderHandler.GetRider)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/statements/export", deps.ReportHandler.ExportStatements)
			reports.GET("/riders/:id/activity", deps.ReportHandler.GetRiderActivity)
		}
	}

	return router
}
