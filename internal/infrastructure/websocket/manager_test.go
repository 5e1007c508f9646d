package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fezeaixcommission/internal/domain/service"
)

func readEvent(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case payload := <-c.send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(payload, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no event queued")
		return WSMessage{}
	}
}

func TestClientQueuesBadgeAndSound(t *testing.T) {
	c := NewClient("alice", "device-1", nil)
	ctx := context.Background()

	require.NoError(t, c.SendBadge(ctx, service.Badge{Total: 2, NewMessages: 2, Items: []service.UnreadItem{}}))
	require.NoError(t, c.PlaySound(ctx, service.SoundNewMessage))

	badge := readEvent(t, c)
	assert.Equal(t, MessageTypeBadge, badge.Type)
	assert.Equal(t, float64(2), badge.Data.(map[string]interface{})["total"])

	sound := readEvent(t, c)
	assert.Equal(t, MessageTypePlaySound, sound.Type)
	assert.Equal(t, "notification.mp3", sound.Data.(map[string]interface{})["sound"])
}

func TestClientFullBufferRefusesPlayback(t *testing.T) {
	c := NewClient("alice", "device-1", nil)
	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, c.SendBadge(context.Background(), service.Badge{}))
	}
	assert.ErrorIs(t, c.PlaySound(context.Background(), service.SoundNewRequest), ErrSendBlocked)
}

func TestManagerRegisterRefreshUnregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	phone := NewClient("alice", "phone", nil)
	laptop := NewClient("alice", "laptop", nil)
	m.Register <- phone
	m.Register <- laptop

	assert.Eventually(t, func() bool { return m.ConnectedClients("alice") == 2 }, time.Second, 10*time.Millisecond)

	m.RefreshBadge("alice")
	m.RefreshBadge("alice") // coalesced
	for _, c := range []*Client{phone, laptop} {
		select {
		case <-c.Refresh():
		case <-time.After(time.Second):
			t.Fatal("refresh not delivered")
		}
		select {
		case <-c.Refresh():
			t.Fatal("refresh should be coalesced")
		default:
		}
	}

	m.Unregister <- phone
	assert.Eventually(t, func() bool { return m.ConnectedClients("alice") == 1 }, time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, phone.SendBadge(context.Background(), service.Badge{}), ErrClientClosed)
}

func TestManagerStopDoesNotBlockClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	m := NewManager()
	m.Start(ctx)

	c := NewClient("alice", "laptop", nil)
	require.True(t, m.Join(c))
	assert.Eventually(t, func() bool { return m.ConnectedClients("alice") == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
	assert.Equal(t, 0, m.ConnectedClients("alice"))
	assert.ErrorIs(t, c.SendBadge(context.Background(), service.Badge{}), ErrClientClosed)

	left := make(chan struct{})
	go func() {
		m.Leave(c)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("Leave blocked after shutdown")
	}

	assert.False(t, m.Join(NewClient("bob", "phone", nil)))
}

func TestHandleClientMessagePing(t *testing.T) {
	m := NewManager()
	c := NewClient("alice", "d", nil)

	m.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	assert.Equal(t, MessageTypePong, readEvent(t, c).Type)

	m.HandleClientMessage(c, []byte(`not json`))
	assert.Equal(t, MessageTypeError, readEvent(t, c).Type)

	m.HandleClientMessage(c, []byte(`{"type":"subscribe"}`))
	assert.Equal(t, MessageTypeError, readEvent(t, c).Type)
}
