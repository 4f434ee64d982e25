package memory

import (
	"sync"
)

// Session is the per-connection record: which room (if any) the connection
// belongs to and the display name it joined with. Kept apart from the
// transport so the websocket layer holds no chat state.
type Session struct {
	ConnID   string
	RoomID   string
	Username string
}

// Active reports whether the connection is currently in a room.
func (s Session) Active() bool {
	return s.RoomID != ""
}

type SessionRepository interface {
	// Add registers an idle session for a new connection.
	Add(connID string)

	// Get returns the session record for a connection.
	Get(connID string) (Session, bool)

	// SetRoom marks the session active in a room under a display name.
	SetRoom(connID, roomID, username string)

	// ClearRoom returns the session to idle.
	ClearRoom(connID string)

	// Remove drops the session on disconnect.
	Remove(connID string)
}

type sessionRepository struct {
	sessions map[string]Session
	mu       sync.RWMutex
}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{
		sessions: make(map[string]Session),
	}
}

func (r *sessionRepository) Add(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[connID] = Session{ConnID: connID}
}

func (r *sessionRepository) Get(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[connID]
	return session, exists
}

func (r *sessionRepository) SetRoom(connID, roomID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[connID]; exists {
		session.RoomID = roomID
		session.Username = username
		r.sessions[connID] = session
	}
}

func (r *sessionRepository) ClearRoom(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[connID]; exists {
		session.RoomID = ""
		r.sessions[connID] = session
	}
}

func (r *sessionRepository) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, connID)
}
