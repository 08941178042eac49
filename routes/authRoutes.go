package routes

import (
	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, auth *services.AuthService, requireAuth gin.HandlerFunc) {
	group := server.Group("/auth")
	{
		group.POST("/register", controllers.Register(auth))
		group.POST("/login", controllers.Login(auth))
		group.GET("/me", requireAuth, controllers.GetCurrentUser(auth))
		group.PUT("/profile", requireAuth, controllers.UpdateProfile(auth))
	}
}
