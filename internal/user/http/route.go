package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	userGroup := g.Group("/users")
	userGroup.Use(authMiddleware)
	{
		userGroup.GET("/me", h.Me)
		userGroup.GET("", adminMiddleware, h.List)
	}
}
