package memory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nidhiknayak/MeetSpace/internal/application/constant"
	"github.com/nidhiknayak/MeetSpace/internal/application/metric"
)

// WebsocketConnectionRepository tracks live websocket connections in memory
// and serializes writes per connection. A failed or slow write affects only
// that connection.
type WebsocketConnectionRepository interface {
	Add(connID string, conn *websocket.Conn)
	Remove(connID string)

	Write(connID string, payload any)
}

type safeWS struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

type wsConnectionRepository struct {
	// wsConns stores map[conn_id]*ws.conn
	wsConns map[string]*safeWS

	mu sync.RWMutex
}

func NewWSConnectionRepository() WebsocketConnectionRepository {
	return &wsConnectionRepository{
		wsConns: make(map[string]*safeWS, 10),
	}
}

func (w *wsConnectionRepository) Add(connID string, conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.wsConns[connID] = &safeWS{conn: conn}

	metric.IncrementWSActiveConnections()
}

func (w *wsConnectionRepository) Remove(connID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.wsConns[connID]; exists {
		delete(w.wsConns, connID)

		metric.DecrementWSActiveConnections()
	}
}

func (w *wsConnectionRepository) Write(connID string, payload any) {
	safews, ok := w.getSafeWS(connID)
	if !ok {
		return
	}

	safews.mu.Lock()
	defer safews.mu.Unlock()

	err := safews.conn.WriteJSON(payload)
	if err != nil {
		slog.Error(
			"write to websocket",
			slog.Any(constant.Error, err),
			slog.String(constant.ConnID, connID),
		)
		return
	}
}

func (w *wsConnectionRepository) getSafeWS(connID string) (*safeWS, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	conn, ok := w.wsConns[connID]
	return conn, ok
}
