package router

import (
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/handler"
	"fezeaixcommission/internal/adapter/api/middleware"
)

func SetupCommissionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	commissionHandler := handler.GetCommissionHandler()

	e.GET("/v1/commission-types", commissionHandler.ListTypes)

	commissions := e.Group("/v1/commissions")
	commissions.Use(authMiddleware.Authenticate)

	commissions.POST("", commissionHandler.Create)
	commissions.GET("", commissionHandler.List)
	commissions.GET("/:id", commissionHandler.Get)
	commissions.POST("/:id/messages", commissionHandler.SendMessage)
	commissions.PUT("/:id/read", commissionHandler.MarkRead)

	// Artist only
	commissions.PATCH("/:id/status", commissionHandler.UpdateStatus, adminMiddleware.AdminOnly)
	commissions.DELETE("/:id/messages/:messageId", commissionHandler.DeleteMessage, adminMiddleware.AdminOnly)
	commissions.DELETE("/:id", commissionHandler.Delete, adminMiddleware.AdminOnly)

	e.GET("/v1/queue", commissionHandler.Queue, authMiddleware.Authenticate)
}
