package usage

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	usage := router.Group("/usage")
	usage.POST("/report", h.ReportUsage)
}
