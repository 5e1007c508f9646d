package router

import (
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/handler"
	"fezeaixcommission/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("/badge", notificationHandler.Badge)
	notifications.POST("/requests/viewed", notificationHandler.MarkRequestsViewed)
	notifications.POST("/clear", notificationHandler.ClearAll)
}
