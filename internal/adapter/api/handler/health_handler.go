package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	storeDriver string
	ledger      string
}

var healthHandler *HealthHandler

func NewHealthHandler(storeDriver, ledger string) *HealthHandler {
	return &HealthHandler{
		storeDriver: storeDriver,
		ledger:      ledger,
	}
}

func SetupHealthHandler(storeDriver, ledger string) {
	healthHandler = NewHealthHandler(storeDriver, ledger)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"store":  h.storeDriver,
		"ledger": h.ledger,
		"time":   time.Now().Format(time.RFC3339),
	})
}
