package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/rentals")

	// Browsing the catalog is public.
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	// Catalog management is admin only.
	group.POST("", authMiddleware, adminMiddleware, h.Create)
	group.PATCH("/:id", authMiddleware, adminMiddleware, h.Update)
	group.DELETE("/:id", authMiddleware, adminMiddleware, h.Delete)
	group.POST("/:id/image", authMiddleware, adminMiddleware, h.UploadImage)
}
