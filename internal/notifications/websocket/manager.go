package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"usinahub/usinahub-backend/internal/notifications"
)

// Manager tracks live websocket connections per user and pushes
// notification payloads to them.
type Manager struct {
	connections map[uint][]*connection
	mu          sync.RWMutex
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

type connection struct {
	userID uint
	conn   *websocket.Conn
	send   chan notifications.PushMessage
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		connections: make(map[uint][]*connection),
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection upgrades the request and starts the read/write pumps.
// The caller resolves the user id from the session before calling.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, userID uint) error {
	ws, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		userID: userID,
		conn:   ws,
		send:   make(chan notifications.PushMessage, 64),
	}

	m.mu.Lock()
	m.connections[userID] = append(m.connections[userID], c)
	m.mu.Unlock()
	m.logger.Debug("websocket connected", zap.Uint("user_id", userID))

	go m.writePump(c)
	go m.readPump(c)
	return nil
}

func (m *Manager) readPump(c *connection) {
	defer func() {
		m.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}

func (m *Manager) writePump(c *connection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) remove(c *connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns := m.connections[c.userID]
	for i, existing := range conns {
		if existing == c {
			m.connections[c.userID] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}
	if len(m.connections[c.userID]) == 0 {
		delete(m.connections, c.userID)
	}
}

// SendToUser pushes a message to every open connection of the user.
// Connections with a full buffer are skipped.
func (m *Manager) SendToUser(userID uint, msg notifications.PushMessage) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.connections[userID] {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// ConnectionCount returns the number of open connections.
func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, conns := range m.connections {
		count += len(conns)
	}
	return count
}

// Close drops every open connection.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, conns := range m.connections {
		for _, c := range conns {
			c.conn.Close()
			close(c.send)
		}
		delete(m.connections, userID)
	}
}
