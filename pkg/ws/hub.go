package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type HubOptions struct {
	Logger      *logrus.Logger
	CheckOrigin func(r *http.Request) bool
	// OnConnect runs after the upgrade; returning an error closes the connection.
	OnConnect func(r *http.Request, conn *Connection) error
}

type Connection struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	// mu serializes Send against close: the send channel is only closed while
	// holding mu, and Send never writes once closed is set. Without this a
	// disconnect landing mid-broadcast panics the broadcaster.
	mu     sync.Mutex
	closed bool
}

// Send queues a message for the connection; a slow consumer whose buffer is
// full is dropped rather than blocking the broadcaster. Sending to an already
// removed connection is a no-op.
func (c *Connection) Send(msg []byte) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	select {
	case c.send <- msg:
		c.mu.Unlock()
		return true
	default:
		c.mu.Unlock()
		c.hub.remove(c)
		return false
	}
}

func (c *Connection) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	_ = c.conn.Close()
}

type Hub struct {
	opts        *HubOptions
	upgrader    websocket.Upgrader
	mu          sync.RWMutex
	connections map[*Connection]struct{}
}

func NewHub(opts *HubOptions) *Hub {
	return &Hub{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
		connections: make(map[*Connection]struct{}),
	}
}

// SetOnConnect installs the post-upgrade callback. Wired during module
// registration, before the server accepts connections.
func (h *Hub) SetOnConnect(fn func(r *http.Request, conn *Connection) error) {
	h.opts.OnConnect = fn
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.opts.Logger != nil {
			h.opts.Logger.WithError(err).Warn("ws: upgrade failed")
		}
		return
	}

	conn := &Connection{
		conn: wsConn,
		send: make(chan []byte, 16),
		hub:  h,
	}

	h.mu.Lock()
	h.connections[conn] = struct{}{}
	h.mu.Unlock()

	if h.opts.OnConnect != nil {
		if err := h.opts.OnConnect(r, conn); err != nil {
			if h.opts.Logger != nil {
				h.opts.Logger.WithError(err).Warn("ws: connect callback failed")
			}
			h.remove(conn)
			return
		}
	}

	go conn.writePump()
	go conn.readPump()
}

// Broadcast sends a message to every live connection.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Send(msg)
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) remove(c *Connection) {
	h.mu.Lock()
	_, ok := h.connections[c]
	delete(h.connections, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

func (c *Connection) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.remove(c)
			return
		}
	}
}

// readPump discards inbound frames; the feed is one-way. Its purpose is to
// notice closed connections and unregister them.
func (c *Connection) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.hub.remove(c)
			return
		}
	}
}
