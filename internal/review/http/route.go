package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Reading reviews is public; writing requires a session.
	g.GET("/rentals/:id/reviews", h.ListByRental)

	group := g.Group("/reviews")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.DELETE("/:id", h.Delete)
	}
}
