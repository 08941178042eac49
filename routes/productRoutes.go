package routes

import (
	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine, catalog *services.CatalogService, requireAuth gin.HandlerFunc) {
	products := server.Group("/products")
	{
		products.GET("/:code", controllers.GetProduct(catalog))
		products.GET("/category/:category", controllers.GetProductsByCategory(catalog))
		products.POST("", requireAuth, middlewares.RequireAdmin(), controllers.CreateProduct(catalog))
		products.POST("/:code/images", requireAuth, middlewares.RequireAdmin(), controllers.UploadProductImages(catalog))
	}
}
