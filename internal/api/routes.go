// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.HTTPErrorHandler = ErrorHandler

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", h.HandleHealth)
	apiGroup.POST("/infer", h.HandleInfer)

	sessionGroup := apiGroup.Group("/sessions")
	sessionGroup.GET("/:sessionId", h.HandleGetSession)
	sessionGroup.GET("/:sessionId/table", h.HandleGetSessionTable)
}
