package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is an ephemeral group of connections sharing presence and history.
// Members keeps insertion order; the member list reported to clients must
// reflect join order.
type Room struct {
	ID      string
	Members []Participant
	History []Message
}

// Participant is a connection's membership record within a room.
type Participant struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Message is immutable once created and belongs to exactly one room.
type Message struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Body      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId"`
}

func NewMessage(connID, username, body string) Message {
	return Message{
		ID:        uuid.NewString(),
		Username:  username,
		Body:      body,
		Timestamp: time.Now(),
		UserID:    connID,
	}
}

// FallbackUsername is the server-assigned display name for blank usernames.
func FallbackUsername(connID string) string {
	if len(connID) > 4 {
		connID = connID[:4]
	}
	return "User-" + connID
}
