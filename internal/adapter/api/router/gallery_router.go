package router

import (
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/handler"
	"fezeaixcommission/internal/adapter/api/middleware"
)

func SetupGalleryRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	galleryHandler := handler.GetGalleryHandler()

	e.GET("/v1/gallery", galleryHandler.List)

	gallery := e.Group("/v1/gallery")
	gallery.Use(authMiddleware.Authenticate, adminMiddleware.AdminOnly)

	gallery.POST("", galleryHandler.Upload)
	gallery.DELETE("/:id", galleryHandler.Delete)
}
