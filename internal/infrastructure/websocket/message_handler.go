package websocket

import (
	"encoding/json"
	"time"

	"fezeaixcommission/pkg/logger"
)

// WebSocket Message Types
const (
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeBadge     = "badge"
	MessageTypePlaySound = "play_sound"
	MessageTypeError     = "error"
)

type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type PlaySoundData struct {
	Sound string `json:"sound"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func newMessage(messageType string, data interface{}) WSMessage {
	return WSMessage{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (m WSMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// HandleClientMessage processes incoming WebSocket messages. Notification
// sockets are push only, so the client may just ping.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage
	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		logger.Debug("WebSocket: invalid message from %s: %v", client.Username, err)
		m.sendError(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		if err := client.enqueue(newMessage(MessageTypePong, nil)); err != nil {
			logger.Debug("WebSocket: pong to %s dropped: %v", client.Username, err)
		}
	default:
		m.sendError(client, "Unsupported message type: "+wsMessage.Type)
	}
}

func (m *Manager) sendError(client *Client, message string) {
	if err := client.enqueue(newMessage(MessageTypeError, ErrorData{Message: message})); err != nil {
		logger.Debug("WebSocket: error to %s dropped: %v", client.Username, err)
	}
}
