package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("/active", h.Active)
		group.GET("/history", h.History)
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Cancel)
		group.POST("/:id/complete", h.Complete)
		group.PATCH("/:id/dates", h.UpdateDates)
		group.POST("/payments/confirm", h.ConfirmPayment)
	}
}
