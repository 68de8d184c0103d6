package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"track_swiftly/internal/middleware"
	"track_swiftly/internal/services"
)

type StatsController struct {
	stats *services.StatsService
}

func NewStatsController(stats *services.StatsService) *StatsController {
	return &StatsController{stats: stats}
}

func (sc *StatsController) Delivery(c *gin.Context) {
	stats, err := sc.stats.Delivery(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (sc *StatsController) Customer(c *gin.Context) {
	stats, err := sc.stats.Customer(c.Request.Context(), middleware.ActorFrom(c), c.Param("customerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
