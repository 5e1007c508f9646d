package handler

import (
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/middleware"
	"fezeaixcommission/internal/usecase"
	"fezeaixcommission/pkg/response"
)

type NotificationHandler struct {
	ledgerUseCase *usecase.LedgerUseCase
}

func NewNotificationHandler(ledgerUseCase *usecase.LedgerUseCase) *NotificationHandler {
	return &NotificationHandler{
		ledgerUseCase: ledgerUseCase,
	}
}

type markRequestsViewedRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

func (h *NotificationHandler) Badge(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	badge, err := h.ledgerUseCase.Badge(c.Request().Context(), identity, middleware.DeviceID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, badge)
}

func (h *NotificationHandler) MarkRequestsViewed(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req markRequestsViewedRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.ledgerUseCase.MarkRequestsViewed(c.Request().Context(), identity, middleware.DeviceID(c), req.IDs); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{
		"marked": len(req.IDs),
	})
}

// ClearAll is the bell dropdown's "clear all".
func (h *NotificationHandler) ClearAll(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.ledgerUseCase.ClearAll(c.Request().Context(), identity, middleware.DeviceID(c)); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "All notifications cleared",
	})
}
