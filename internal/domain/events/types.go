package events

import (
	"encoding/json"

	"github.com/nidhiknayak/MeetSpace/internal/domain/models"
)

// Inbound event types.
const (
	TypeCreateRoom  = "create-room"
	TypeJoinRoom    = "join-room"
	TypeSendMessage = "send-message"
	TypeTyping      = "typing"
	TypeGetRoomInfo = "get-room-info"
)

// Outbound event types.
const (
	TypeConnected   = "connected"
	TypeRoomCreated = "room-created"
	TypeJoinedRoom  = "joined-room"
	TypeUserJoined  = "user-joined"
	TypeNewMessage  = "new-message"
	TypeUserTyping  = "user-typing"
	TypeUserLeft    = "user-left"
	TypeRoomInfo    = "room-info"
	TypeError       = "error"
)

// Message - the wire envelope, both directions
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ConnectedEvent - greeting carrying the connection's id
type ConnectedEvent struct {
	ConnectionID string `json:"connectionId"`
}

// RoomCreatedEvent - response to create-room
type RoomCreatedEvent struct {
	RoomID string `json:"roomId"`
}

// JoinRoomEvent - request to join a room
type JoinRoomEvent struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// JoinedRoomEvent - room snapshot sent to the joiner only
type JoinedRoomEvent struct {
	RoomID   string               `json:"roomId"`
	Users    []models.Participant `json:"users"`
	Messages []models.Message     `json:"messages"`
}

// UserJoinedEvent - sent to the other members after a join
type UserJoinedEvent struct {
	User  models.Participant   `json:"user"`
	Users []models.Participant `json:"users"`
}

// SendMessageEvent - inbound chat message. Username is accepted on the wire
// but the session's recorded display name wins.
type SendMessageEvent struct {
	RoomID   string `json:"roomId"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

// TypingEvent - transient typing indicator
type TypingEvent struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// UserTypingEvent - forwarded to the other members of the room
type UserTypingEvent struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// UserLeftEvent - sent to the remaining members after a departure
type UserLeftEvent struct {
	User  models.Participant   `json:"user"`
	Users []models.Participant `json:"users"`
}

// GetRoomInfoEvent - read-only existence check
type GetRoomInfoEvent struct {
	RoomID string `json:"roomId"`
}

// RoomInfoEvent - response to get-room-info
type RoomInfoEvent struct {
	Exists    bool `json:"exists"`
	UserCount int  `json:"userCount"`
}

// ErrorEvent - sent to the requester on an invalid room reference
type ErrorEvent struct {
	Message string `json:"message"`
}

// Outbound wraps a payload into the wire envelope. The payload types above
// cannot fail to marshal, so the error is swallowed here.
func Outbound(eventType string, payload any) Message {
	data, _ := json.Marshal(payload)
	return Message{Type: eventType, Data: data}
}
