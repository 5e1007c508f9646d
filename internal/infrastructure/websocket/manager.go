package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fezeaixcommission/internal/domain/service"
	"fezeaixcommission/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var (
	ErrClientClosed = errors.New("websocket client closed")
	ErrSendBlocked  = errors.New("websocket send buffer full")
)

// Client is one open notification socket. A user may hold several, one per
// tab or device.
type Client struct {
	Username string
	DeviceID string
	Conn     *websocket.Conn

	send    chan []byte
	refresh chan struct{}
	mu      sync.Mutex
	closed  bool
}

func NewClient(username, deviceID string, conn *websocket.Conn) *Client {
	return &Client{
		Username: username,
		DeviceID: deviceID,
		Conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		refresh:  make(chan struct{}, 1),
	}
}

// Refresh fires when the user's read ledger changed outside the snapshot stream.
func (c *Client) Refresh() <-chan struct{} {
	return c.refresh
}

func (c *Client) SendBadge(ctx context.Context, badge service.Badge) error {
	return c.enqueue(newMessage(MessageTypeBadge, badge))
}

// PlaySound asks the browser to play sound. It fails when the socket can't
// take the event, which callers treat as refused playback.
func (c *Client) PlaySound(ctx context.Context, sound service.Sound) error {
	return c.enqueue(newMessage(MessageTypePlaySound, PlaySoundData{Sound: string(sound)}))
}

func (c *Client) enqueue(msg WSMessage) error {
	payload, err := msg.Encode()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSendBlocked
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Manager tracks open clients by username.
type Manager struct {
	clients    map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.add(client)
				logger.Info("Client registered: %s (device %s)", client.Username, client.DeviceID)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Info("Client unregistered: %s (device %s)", client.Username, client.DeviceID)

			case <-ctx.Done():
				m.closeAll()
				close(m.done)
				return
			}
		}
	}()
}

// Done is closed once the manager has stopped and closed every client.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Join registers client. It returns false when the manager has stopped.
func (m *Manager) Join(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

// Leave unregisters client; after shutdown it is a no-op.
func (m *Manager) Leave(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) add(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set, ok := m.clients[client.Username]
	if !ok {
		set = make(map[*Client]bool)
		m.clients[client.Username] = set
	}
	set[client] = true
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if set, ok := m.clients[client.Username]; ok {
		if set[client] {
			delete(set, client)
			client.close()
		}
		if len(set) == 0 {
			delete(m.clients, client.Username)
		}
	}
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for username, set := range m.clients {
		for client := range set {
			client.close()
		}
		delete(m.clients, username)
	}
}

// RefreshBadge nudges every open session of username to recompute its badge.
func (m *Manager) RefreshBadge(username string) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for client := range m.clients[username] {
		select {
		case client.refresh <- struct{}{}:
		default:
		}
	}
}

// ConnectedClients returns the number of open sockets for username.
func (m *Manager) ConnectedClients(username string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[username])
}

// ReadPump reads messages from the WebSocket connection until it closes.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for %s: %v", c.Username, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends queued events and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write error for %s: %v", c.Username, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
