package router

import (
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/handler"
	"fezeaixcommission/internal/adapter/api/middleware"
)

// SetupWebSocketRouter sets up the notification socket. Browsers cannot set
// headers on the upgrade, so the token may also come as a query parameter.
func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.GetWebSocketHandler()
	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.Authenticate)
}
