package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
		srv.Close()
	})
	return client
}

func registeredConnection(t *testing.T, hub *Hub) *Connection {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for c := range hub.connections {
		return c
	}
	return nil
}

func TestBroadcast_DeliversToConnectedClient(t *testing.T) {
	hub := NewHub(&HubOptions{CheckOrigin: func(*http.Request) bool { return true }})
	client := dialTestHub(t, hub)

	registeredConnection(t, hub)
	hub.Broadcast([]byte("hello"))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(msg))
}

func TestOnConnect_SendsInitialMessage(t *testing.T) {
	hub := NewHub(&HubOptions{
		CheckOrigin: func(*http.Request) bool { return true },
		OnConnect: func(r *http.Request, conn *Connection) error {
			conn.Send([]byte("snapshot"))
			return nil
		},
	})
	client := dialTestHub(t, hub)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "snapshot", string(msg))
}

// A disconnect can land between Broadcast snapshotting the connection set and
// sending to a member of it. The late Send must be a dropped no-op, never a
// write to a closed channel.
func TestSend_AfterRemoveIsDropped(t *testing.T) {
	hub := NewHub(&HubOptions{CheckOrigin: func(*http.Request) bool { return true }})
	dialTestHub(t, hub)

	conn := registeredConnection(t, hub)
	hub.remove(conn)
	assert.Equal(t, 0, hub.ConnectionCount())

	require.NotPanics(t, func() {
		assert.False(t, conn.Send([]byte("late")))
	})
}

func TestRemove_IsIdempotent(t *testing.T) {
	hub := NewHub(&HubOptions{CheckOrigin: func(*http.Request) bool { return true }})
	dialTestHub(t, hub)

	conn := registeredConnection(t, hub)
	require.NotPanics(t, func() {
		hub.remove(conn)
		hub.remove(conn)
	})
	assert.Equal(t, 0, hub.ConnectionCount())
}
