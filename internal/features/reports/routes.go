package reports

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the report endpoints. Writes and listing always need
// auth; reads need it only when the handler is owner scoped.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	reports := router.Group("/reports")

	reports.POST("", authMiddleware, handler.Create)
	reports.GET("", authMiddleware, handler.List)
	reports.DELETE("/:id", authMiddleware, handler.Delete)

	if handler.ownerScoped {
		reports.GET("/compare/:ids", authMiddleware, handler.Compare)
		reports.GET("/:id", authMiddleware, handler.Get)
	} else {
		reports.GET("/compare/:ids", handler.Compare)
		reports.GET("/:id", handler.Get)
	}
}
