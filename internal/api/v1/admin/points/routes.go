package points

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	points := router.Group("/points")
	points.POST("/credit", h.Credit)
	points.POST("/debit", h.Debit)

	transactions := router.Group("/transactions")
	transactions.GET("", h.ListTransactions)
	transactions.GET("/export", h.ExportTransactions)
}
