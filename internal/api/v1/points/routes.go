package points

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	points := router.Group("/points")
	points.GET("/balance", h.GetBalance)
	points.GET("/history", h.GetHistory)
	points.GET("/usage", h.GetUsage)
	points.POST("/daily-bonus", h.ClaimDailyBonus)
}
