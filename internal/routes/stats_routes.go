package routes

import (
	"github.com/gin-gonic/gin"

	"track_swiftly/internal/controllers"
	"track_swiftly/internal/middleware"
	"track_swiftly/internal/models"
)

func StatsRoutes(api *gin.RouterGroup, sc *controllers.StatsController, requireAuth gin.HandlerFunc) {
	stats := api.Group("/stats", requireAuth)
	{
		stats.GET("/delivery", middleware.RequireRole(models.RoleAdmin, models.RoleDeliveryStaff), sc.Delivery)
		stats.GET("/customer/:customerId", sc.Customer)
	}
}
