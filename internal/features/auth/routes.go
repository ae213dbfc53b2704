package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /auth. limiter guards the credential endpoints and
// authMiddleware the profile endpoint.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc, limiter ...gin.HandlerFunc) {
	auth := router.Group("/auth", limiter...)
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.GET("/me", authMiddleware, handler.Me)
	}
}
