package routes

import (
	"github.com/gin-gonic/gin"

	"track_swiftly/internal/controllers"
	"track_swiftly/internal/middleware"
	"track_swiftly/internal/models"
)

func PackageRoutes(api *gin.RouterGroup, pc *controllers.PackageController, requireAuth gin.HandlerFunc) {
	packages := api.Group("/packages")

	// public tracking lookup
	packages.GET("/track/:trackingNumber", pc.Track)

	packages.Use(requireAuth)
	{
		packages.GET("", pc.List)
		packages.GET("/:id", pc.Get)
		packages.GET("/:id/history", pc.History)
		packages.POST("", middleware.RequireRole(models.RoleAdmin), pc.Create)
		packages.PATCH("/:id/status", middleware.RequireRole(models.RoleAdmin, models.RoleDeliveryStaff), pc.UpdateStatus)
		packages.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), pc.Delete)
	}
}
