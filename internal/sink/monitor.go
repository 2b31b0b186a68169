package sink

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	clientBuffer = 64
	writeTimeout = 2 * time.Second
)

type monitorClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *monitorClient) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Monitor streams frames to websocket clients as JSON text messages. Slow
// clients drop frames instead of stalling the emulation loop.
type Monitor struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*monitorClient]struct{}
	closed  bool
	dropped uint64
}

func NewMonitor(logger *slog.Logger) *Monitor {
	return &Monitor{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: map[*monitorClient]struct{}{},
	}
}

// ServeHTTP upgrades the request and streams frames until the client leaves.
func (m *Monitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &monitorClient{conn: conn, send: make(chan []byte, clientBuffer)}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	m.clients[c] = struct{}{}
	m.mu.Unlock()
	m.logger.Info("Monitor client connected", "remote", r.RemoteAddr)

	go m.writeLoop(c)

	// Incoming messages are ignored; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Debug("Monitor client read error", "remote", r.RemoteAddr, "error", err)
			}
			break
		}
	}

	m.remove(c)
	m.logger.Info("Monitor client disconnected", "remote", r.RemoteAddr)
}

func (m *Monitor) writeLoop(c *monitorClient) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			m.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

func (m *Monitor) remove(c *monitorClient) {
	m.mu.Lock()
	delete(m.clients, c)
	m.mu.Unlock()
	c.close()
}

// Clients returns the number of connected clients.
func (m *Monitor) Clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Dropped returns how many frames were skipped for slow clients.
func (m *Monitor) Dropped() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

func (m *Monitor) Write(f Frame) error {
	msg, err := json.Marshal(f)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for c := range m.clients {
		select {
		case c.send <- msg:
		default:
			m.dropped++
		}
	}
	return nil
}

// Close disconnects every client and rejects new ones.
func (m *Monitor) Close() error {
	m.mu.Lock()
	m.closed = true
	clients := m.clients
	m.clients = map[*monitorClient]struct{}{}
	m.mu.Unlock()
	for c := range clients {
		c.close()
	}
	return nil
}
