package notifiers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/daniacca/rxtrig/internal/rxn"
	"github.com/gorilla/websocket"
)

const (
	clientQueueSize = 64
	writeWait       = 10 * time.Second
)

// wsClient is one connection with its own outgoing queue and writer goroutine.
type wsClient struct {
	conn  *websocket.Conn
	queue chan []byte
	once  sync.Once
}

// stop ends the writer, which then closes the connection.
func (c *wsClient) stop() {
	c.once.Do(func() { close(c.queue) })
}

// WebSocketNotifier streams overflow events to connected WebSocket clients.
// A client whose queue is full is disconnected rather than slowing the others.
type WebSocketNotifier struct {
	id       string
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*wsClient
	closed  bool
	writers sync.WaitGroup
}

// NewWebSocketNotifier creates a new WebSocket notifier
func NewWebSocketNotifier(id string) *WebSocketNotifier {
	return &WebSocketNotifier{
		id:      id,
		clients: make(map[*websocket.Conn]*wsClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ID returns the notifier ID
func (wsn *WebSocketNotifier) ID() string {
	return wsn.id
}

// Type returns the notifier type
func (wsn *WebSocketNotifier) Type() string {
	return "websocket"
}

// GetUpgrader returns the WebSocket upgrader for HTTP handlers
func (wsn *WebSocketNotifier) GetUpgrader() websocket.Upgrader {
	return wsn.upgrader
}

// RegisterClient starts streaming events to conn. After Close the
// connection is closed straight away.
func (wsn *WebSocketNotifier) RegisterClient(conn *websocket.Conn) {
	if conn == nil {
		return
	}
	wsn.mu.Lock()
	if wsn.closed {
		wsn.mu.Unlock()
		conn.Close()
		return
	}
	if _, ok := wsn.clients[conn]; ok {
		wsn.mu.Unlock()
		return
	}
	c := &wsClient{conn: conn, queue: make(chan []byte, clientQueueSize)}
	wsn.clients[conn] = c
	wsn.writers.Add(1)
	wsn.mu.Unlock()

	go wsn.write(c)
}

// UnregisterClient removes and closes a connection
func (wsn *WebSocketNotifier) UnregisterClient(conn *websocket.Conn) {
	wsn.drop(conn)
}

// ClientCount returns the number of connected clients
func (wsn *WebSocketNotifier) ClientCount() int {
	wsn.mu.RLock()
	defer wsn.mu.RUnlock()
	return len(wsn.clients)
}

// Notify queues the event for every connected client without blocking.
func (wsn *WebSocketNotifier) Notify(ctx context.Context, event rxn.OverflowEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var slow []*websocket.Conn
	wsn.mu.RLock()
	if wsn.closed {
		wsn.mu.RUnlock()
		return fmt.Errorf("notifier %s is closed", wsn.id)
	}
	for conn, c := range wsn.clients {
		select {
		case c.queue <- data:
		default:
			slow = append(slow, conn)
		}
	}
	wsn.mu.RUnlock()

	for _, conn := range slow {
		wsn.drop(conn)
	}
	return nil
}

func (wsn *WebSocketNotifier) drop(conn *websocket.Conn) {
	wsn.mu.Lock()
	c, ok := wsn.clients[conn]
	delete(wsn.clients, conn)
	wsn.mu.Unlock()
	if ok {
		c.stop()
	}
}

func (wsn *WebSocketNotifier) write(c *wsClient) {
	defer wsn.writers.Done()
	defer c.conn.Close()

	for data := range c.queue {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			wsn.drop(c.conn)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// Close disconnects every client and waits for their writers to finish.
// Later calls are no-ops.
func (wsn *WebSocketNotifier) Close() error {
	wsn.mu.Lock()
	if wsn.closed {
		wsn.mu.Unlock()
		return nil
	}
	wsn.closed = true
	clients := wsn.clients
	wsn.clients = make(map[*websocket.Conn]*wsClient)
	wsn.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
	wsn.writers.Wait()
	return nil
}
