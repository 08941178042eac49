package routes

import (
	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/notify"
	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, orders *services.OrderService, lifecycle *services.LifecycleService, hub *notify.Hub, requireAuth, requireFeedAuth gin.HandlerFunc) {
	group := server.Group("/orders", requireAuth)
	admin := middlewares.RequireAdmin()

	// Static admin paths are registered next to the user's /:orderId.
	group.GET("/allorders", admin, controllers.GetAllOrders(orders))
	group.GET("/status/:status", admin, controllers.GetOrdersByStatus(orders))
	group.GET("/undelivered-count", admin, controllers.GetUndeliveredCount(orders))
	group.GET("/export", admin, controllers.ExportOrders(orders))
	group.GET("/admin/:id", admin, controllers.GetOrder(orders))

	group.POST("/create", controllers.CreateOrder(orders))
	group.GET("", controllers.GetUserOrders(orders))
	group.GET("/:orderId", controllers.GetUserOrder(orders))
	group.PUT("/cancel/:orderId", controllers.CancelUserOrder(lifecycle))

	group.PATCH("/:id/status", admin, controllers.UpdateOrderStatus(lifecycle))
	group.PATCH("/:id/advance", admin, controllers.AdvanceOrder(lifecycle))
	group.PATCH("/:id/complete", admin, controllers.CompleteOrder(lifecycle))
	group.PATCH("/:id/cancel", admin, controllers.AdminCancelOrder(lifecycle))
	group.DELETE("/:id", admin, controllers.DeleteOrder(lifecycle))

	// The feed accepts ?token= for the websocket handshake, so it sits outside
	// the header-only group.
	server.GET("/orders/feed", requireFeedAuth, admin, controllers.OrderFeed(hub))
}
