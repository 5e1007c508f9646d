package router

import (
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/handler"
	"fezeaixcommission/internal/adapter/api/middleware"
	"fezeaixcommission/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	// Public routes
	e.POST("/v1/auth/register", authHandler.Register, middleware.RateLimit(limiter, ratelimit.ActionRegister))
	e.POST("/v1/auth/login", authHandler.Login, middleware.RateLimit(limiter, ratelimit.ActionLogin))

	// Protected routes
	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.GET("/me", authHandler.Me)
	protected.PUT("/password", authHandler.ChangePassword)
}
