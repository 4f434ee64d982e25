package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nidhiknayak/MeetSpace/internal/application/config"
	"github.com/nidhiknayak/MeetSpace/internal/domain/events"
	"github.com/nidhiknayak/MeetSpace/internal/infra/adapters/memory"
	"github.com/nidhiknayak/MeetSpace/internal/roomcode"
	"github.com/nidhiknayak/MeetSpace/internal/usecase"
)

// testServer wires the real registry, sessions, and usecases behind an
// httptest server. Returned dial opens a client connection and consumes the
// connected greeting.
func testServer(t *testing.T) func() *websocket.Conn {
	t.Helper()

	cfg := &config.Config{Debug: true, MaxMessageLength: 500}

	registry := memory.NewRoomRegistry(roomcode.Generate)
	sessions := memory.NewSessionRepository()
	conns := memory.NewWSConnectionRepository()

	roomUsecase := usecase.NewRoomUsecase(registry)
	chatUsecase := usecase.NewChatUsecase(cfg, registry, sessions, conns)

	handler := NewWebSocketHandler(cfg, roomUsecase, chatUsecase, sessions, conns)

	e := echo.New()
	e.HideBanner = true
	e.GET("/ws", handler.Handle)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	return func() *websocket.Conn {
		t.Helper()

		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })

		greeting := readEvent(t, conn)
		require.Equal(t, events.TypeConnected, greeting.Type)

		return conn
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg events.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func sendEvent(t *testing.T, conn *websocket.Conn, eventType string, payload any) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(events.Outbound(eventType, payload)))
}

func unmarshalData[T any](t *testing.T, msg events.Message) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(msg.Data, &out))
	return out
}

func TestWebSocket_CreateJoinMessageFlow(t *testing.T) {
	dial := testServer(t)

	connA := dial()

	sendEvent(t, connA, events.TypeCreateRoom, nil)
	created := readEvent(t, connA)
	require.Equal(t, events.TypeRoomCreated, created.Type)
	roomID := unmarshalData[events.RoomCreatedEvent](t, created).RoomID
	assert.True(t, roomcode.IsValid(roomID))

	sendEvent(t, connA, events.TypeJoinRoom, events.JoinRoomEvent{RoomID: roomID, Username: "Alice"})
	joined := readEvent(t, connA)
	require.Equal(t, events.TypeJoinedRoom, joined.Type)
	snapshot := unmarshalData[events.JoinedRoomEvent](t, joined)
	require.Len(t, snapshot.Users, 1)
	assert.Equal(t, "Alice", snapshot.Users[0].Username)
	assert.Empty(t, snapshot.Messages)

	connB := dial()
	sendEvent(t, connB, events.TypeJoinRoom, events.JoinRoomEvent{RoomID: roomID, Username: "Bob"})
	joined = readEvent(t, connB)
	require.Equal(t, events.TypeJoinedRoom, joined.Type)
	snapshot = unmarshalData[events.JoinedRoomEvent](t, joined)
	require.Len(t, snapshot.Users, 2)

	notice := readEvent(t, connA)
	require.Equal(t, events.TypeUserJoined, notice.Type)
	assert.Equal(t, "Bob", unmarshalData[events.UserJoinedEvent](t, notice).User.Username)

	sendEvent(t, connA, events.TypeSendMessage, events.SendMessageEvent{RoomID: roomID, Message: "hi"})
	for _, conn := range []*websocket.Conn{connA, connB} {
		outbound := readEvent(t, conn)
		require.Equal(t, events.TypeNewMessage, outbound.Type)

		var msg struct {
			Username string `json:"username"`
			Message  string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(outbound.Data, &msg))
		assert.Equal(t, "Alice", msg.Username)
		assert.Equal(t, "hi", msg.Message)
	}
}

func TestWebSocket_TypingIndicator(t *testing.T) {
	dial := testServer(t)

	connA := dial()
	sendEvent(t, connA, events.TypeCreateRoom, nil)
	roomID := unmarshalData[events.RoomCreatedEvent](t, readEvent(t, connA)).RoomID

	sendEvent(t, connA, events.TypeJoinRoom, events.JoinRoomEvent{RoomID: roomID, Username: "Alice"})
	readEvent(t, connA) // joined-room

	connB := dial()
	sendEvent(t, connB, events.TypeJoinRoom, events.JoinRoomEvent{RoomID: roomID, Username: "Bob"})
	readEvent(t, connB) // joined-room
	readEvent(t, connA) // user-joined

	sendEvent(t, connB, events.TypeTyping, events.TypingEvent{RoomID: roomID, Username: "Bob", IsTyping: true})

	typing := readEvent(t, connA)
	require.Equal(t, events.TypeUserTyping, typing.Type)
	ev := unmarshalData[events.UserTypingEvent](t, typing)
	assert.Equal(t, "Bob", ev.Username)
	assert.True(t, ev.IsTyping)
}

func TestWebSocket_DisconnectCleanup(t *testing.T) {
	dial := testServer(t)

	connA := dial()
	sendEvent(t, connA, events.TypeCreateRoom, nil)
	roomID := unmarshalData[events.RoomCreatedEvent](t, readEvent(t, connA)).RoomID

	sendEvent(t, connA, events.TypeJoinRoom, events.JoinRoomEvent{RoomID: roomID, Username: "Alice"})
	readEvent(t, connA) // joined-room

	connB := dial()
	sendEvent(t, connB, events.TypeJoinRoom, events.JoinRoomEvent{RoomID: roomID, Username: "Bob"})
	readEvent(t, connB) // joined-room
	readEvent(t, connA) // user-joined

	connB.Close()

	left := readEvent(t, connA)
	require.Equal(t, events.TypeUserLeft, left.Type)
	departure := unmarshalData[events.UserLeftEvent](t, left)
	assert.Equal(t, "Bob", departure.User.Username)
	require.Len(t, departure.Users, 1)
	assert.Equal(t, "Alice", departure.Users[0].Username)

	// Room still live with one member.
	sendEvent(t, connA, events.TypeGetRoomInfo, events.GetRoomInfoEvent{RoomID: roomID})
	info := readEvent(t, connA)
	require.Equal(t, events.TypeRoomInfo, info.Type)
	roomInfo := unmarshalData[events.RoomInfoEvent](t, info)
	assert.True(t, roomInfo.Exists)
	assert.Equal(t, 1, roomInfo.UserCount)

	connA.Close()

	// Cleanup runs after the server notices the close; poll until the room
	// is gone.
	connC := dial()
	deadline := time.Now().Add(2 * time.Second)
	for {
		sendEvent(t, connC, events.TypeGetRoomInfo, events.GetRoomInfoEvent{RoomID: roomID})
		info = readEvent(t, connC)
		require.Equal(t, events.TypeRoomInfo, info.Type)
		roomInfo = unmarshalData[events.RoomInfoEvent](t, info)
		if !roomInfo.Exists {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("room was not reclaimed after last member disconnected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocket_JoinUnknownRoom(t *testing.T) {
	dial := testServer(t)

	conn := dial()
	sendEvent(t, conn, events.TypeJoinRoom, events.JoinRoomEvent{RoomID: "NOPE00", Username: "Alice"})

	errMsg := readEvent(t, conn)
	require.Equal(t, events.TypeError, errMsg.Type)
	assert.Equal(t, "Room does not exist", unmarshalData[events.ErrorEvent](t, errMsg).Message)
}

func TestWebSocket_RoomInfoAcceptsBareString(t *testing.T) {
	dial := testServer(t)

	conn := dial()
	sendEvent(t, conn, events.TypeCreateRoom, nil)
	roomID := unmarshalData[events.RoomCreatedEvent](t, readEvent(t, conn)).RoomID

	// The reference client sends the room id as a bare JSON string.
	require.NoError(t, conn.WriteJSON(map[string]any{"type": events.TypeGetRoomInfo, "data": roomID}))

	info := readEvent(t, conn)
	require.Equal(t, events.TypeRoomInfo, info.Type)
	assert.True(t, unmarshalData[events.RoomInfoEvent](t, info).Exists)
}

func TestParseRoomInfoData(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "bare string", data: `"AB12CD"`, want: "AB12CD"},
		{name: "object", data: `{"roomId":"AB12CD"}`, want: "AB12CD"},
		{name: "empty object", data: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRoomInfoData(json.RawMessage(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
