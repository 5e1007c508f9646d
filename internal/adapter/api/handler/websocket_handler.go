package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/adapter/api/middleware"
	ws "fezeaixcommission/internal/infrastructure/websocket"
	"fezeaixcommission/internal/usecase"
	"fezeaixcommission/pkg/errors"
	"fezeaixcommission/pkg/logger"
	"fezeaixcommission/pkg/response"
)

type WebSocketHandler struct {
	wsManager           *ws.Manager
	notificationUseCase *usecase.NotificationUseCase
	upgrader            gorillaws.Upgrader
}

var webSocketHandler *WebSocketHandler

func NewWebSocketHandler(wsManager *ws.Manager, notificationUseCase *usecase.NotificationUseCase, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:           wsManager,
		notificationUseCase: notificationUseCase,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func SetupWebSocketHandler(wsManager *ws.Manager, notificationUseCase *usecase.NotificationUseCase, allowedOrigins []string) {
	webSocketHandler = NewWebSocketHandler(wsManager, notificationUseCase, allowedOrigins)
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// HandleWebSocket upgrades the request and runs a notification session for
// the caller until the socket closes.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	deviceID := middleware.DeviceID(c)
	if identity.IsAdmin() && deviceID == "" {
		return response.Error(c, errors.BadRequest("device_id is required", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed for %s: %v", identity.Username, err)
		return nil
	}

	client := ws.NewClient(identity.Username, deviceID, conn)
	if !h.wsManager.Join(client) {
		conn.Close()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	go client.WritePump()
	go func() {
		client.ReadPump(h.wsManager)
		cancel()
	}()
	go func() {
		if err := h.notificationUseCase.RunSession(ctx, identity, deviceID, client, client.Refresh()); err != nil {
			logger.Error("Notification session for %s ended: %v", identity.Username, err)
		}
	}()

	return nil
}
