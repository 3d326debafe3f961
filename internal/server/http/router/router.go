package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/coffeebeans/shop/internal/server/http/handlers"
	"github.com/coffeebeans/shop/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ShopFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade, logger)
	cashboxHandler := handlers.NewCashboxHandler(facade)
	inventoryHandler := handlers.NewInventoryHandler(facade)

	api := engine.Group("/api")

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.GET("/profile", authHandler.Profile)

	orders := api.Group("/orders")
	orders.POST("/checkout", middleware.AuthOptional(facade), orderHandler.Checkout)

	ordersAuth := orders.Group("")
	ordersAuth.Use(middleware.AuthRequired(facade))
	ordersAuth.GET("/my", orderHandler.My)
	ordersAuth.GET("/id/:orderId", orderHandler.ByID)
	ordersAuth.GET("/by-number/:orderNumber", orderHandler.ByNumber)

	pay := api.Group("/pay/mp")
	pay.POST("/webhook", webhookHandler.Notify)
	pay.GET("/webhook", webhookHandler.Ping)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(facade), middleware.AdminRequired(facade))
	admin.GET("/cashbox/balance", cashboxHandler.Balance)
	admin.GET("/cashbox/movements", cashboxHandler.Movements)
	admin.POST("/cashbox/credit", cashboxHandler.Credit)
	admin.POST("/cashbox/debit", cashboxHandler.Debit)
	admin.PUT("/inventory/:productId", inventoryHandler.Adjust)

	return engine
}
