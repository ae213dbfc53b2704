package weather

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the weather endpoints behind the given middleware
// (rate limiting, and auth when lookups are not public).
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, middleware ...gin.HandlerFunc) {
	weather := router.Group("/weather", middleware...)
	{
		weather.GET("/location", handler.ByLocation)
		weather.GET("/coords", handler.ByCoordinates)
		weather.GET("/suggestions", handler.Suggestions)
	}
}
