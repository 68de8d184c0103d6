package routes

import (
	"github.com/gin-gonic/gin"

	"track_swiftly/internal/controllers"
	"track_swiftly/internal/middleware"
	"track_swiftly/internal/models"
)

func UserRoutes(api *gin.RouterGroup, uc *controllers.UserController, requireAuth gin.HandlerFunc) {
	users := api.Group("/users", requireAuth)
	{
		users.GET("", middleware.RequireRole(models.RoleAdmin), uc.List)
		users.GET("/:id", uc.Get)
		users.PATCH("/:id", uc.Update)
		users.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), uc.Delete)
	}
}
