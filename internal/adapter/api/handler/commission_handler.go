package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/middleware"
	"fezeaixcommission/internal/usecase"
	"fezeaixcommission/pkg/response"
)

type CommissionHandler struct {
	commissionUseCase *usecase.CommissionUseCase
	ledgerUseCase     *usecase.LedgerUseCase
}

func NewCommissionHandler(commissionUseCase *usecase.CommissionUseCase, ledgerUseCase *usecase.LedgerUseCase) *CommissionHandler {
	return &CommissionHandler{
		commissionUseCase: commissionUseCase,
		ledgerUseCase:     ledgerUseCase,
	}
}

type createCommissionRequest struct {
	CommissionTypeID string `json:"commission_type_id" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type markReadRequest struct {
	At *time.Time `json:"at"`
}

func (h *CommissionHandler) ListTypes(c echo.Context) error {
	types := h.commissionUseCase.Catalog()
	return response.List(c, types, len(types))
}

func (h *CommissionHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createCommissionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	created, err := h.commissionUseCase.Create(c.Request().Context(), identity, usecase.CreateCommissionInput{
		CommissionTypeID: req.CommissionTypeID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, created)
}

func (h *CommissionHandler) List(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	requests, err := h.commissionUseCase.List(c.Request().Context(), identity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, requests, len(requests))
}

func (h *CommissionHandler) Queue(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	entries, err := h.commissionUseCase.Queue(c.Request().Context(), identity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, entries, len(entries))
}

func (h *CommissionHandler) Get(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	req, err := h.commissionUseCase.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, req)
}

func (h *CommissionHandler) UpdateStatus(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	updated, err := h.commissionUseCase.UpdateStatus(c.Request().Context(), identity, c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updated)
}

func (h *CommissionHandler) SendMessage(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	updated, err := h.commissionUseCase.SendMessage(c.Request().Context(), identity, usecase.SendMessageInput{
		RequestID: c.Param("id"),
		Text:      req.Text,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, updated)
}

func (h *CommissionHandler) DeleteMessage(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	updated, err := h.commissionUseCase.DeleteMessage(c.Request().Context(), identity, c.Param("id"), c.Param("messageId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updated)
}

func (h *CommissionHandler) Delete(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.commissionUseCase.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Commission deleted successfully",
	})
}

// MarkRead is called when a thread is opened.
func (h *CommissionHandler) MarkRead(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req markReadRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return response.Error(c, err)
		}
	}

	var at time.Time
	if req.At != nil {
		at = *req.At
	}

	if err := h.ledgerUseCase.MarkRead(c.Request().Context(), identity, middleware.DeviceID(c), c.Param("id"), at); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Marked as read",
	})
}
