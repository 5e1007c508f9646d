package handler

import (
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/middleware"
	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/usecase"
	"fezeaixcommission/pkg/errors"
)

var (
	authHandler         *AuthHandler
	commissionHandler   *CommissionHandler
	notificationHandler *NotificationHandler
	galleryHandler      *GalleryHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	commissionUseCase *usecase.CommissionUseCase,
	ledgerUseCase *usecase.LedgerUseCase,
	galleryUseCase *usecase.GalleryUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	commissionHandler = NewCommissionHandler(commissionUseCase, ledgerUseCase)
	notificationHandler = NewNotificationHandler(ledgerUseCase)
	galleryHandler = NewGalleryHandler(galleryUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetCommissionHandler() *CommissionHandler {
	return commissionHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetGalleryHandler() *GalleryHandler {
	return galleryHandler
}

func currentIdentity(c echo.Context) (entity.Identity, error) {
	identity, ok := middleware.Identity(c)
	if !ok {
		return entity.Identity{}, errors.Unauthorized("Authentication required", nil)
	}
	return identity, nil
}
