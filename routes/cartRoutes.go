package routes

import (
	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, carts *services.CartService, requireAuth gin.HandlerFunc) {
	cart := server.Group("/cart", requireAuth)
	{
		cart.GET("", controllers.GetCart(carts))
		cart.POST("/add", controllers.AddToCart(carts))
		cart.PUT("/update", controllers.UpdateCartItem(carts))
		cart.DELETE("/remove/:itemId", controllers.RemoveFromCart(carts))
		cart.DELETE("/clear", controllers.ClearCart(carts))
	}
}
