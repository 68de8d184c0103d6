package routes

import (
	"github.com/gin-gonic/gin"

	"track_swiftly/internal/controllers"
)

func AuthRoutes(api *gin.RouterGroup, ac *controllers.AuthController, requireAuth gin.HandlerFunc) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", ac.Register)
		auth.POST("/login", ac.Login)
		auth.GET("/me", requireAuth, ac.Me)
	}
}
