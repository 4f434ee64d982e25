package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nidhiknayak/MeetSpace/internal/application/config"
	"github.com/nidhiknayak/MeetSpace/internal/application/constant"
	"github.com/nidhiknayak/MeetSpace/internal/application/metric"
	"github.com/nidhiknayak/MeetSpace/internal/domain/events"
	"github.com/nidhiknayak/MeetSpace/internal/domain/models"
	"github.com/nidhiknayak/MeetSpace/internal/infra/adapters/memory"
	"github.com/nidhiknayak/MeetSpace/internal/roomcode"
)

const roomNotFoundMessage = "Room does not exist"

// ChatUsecase drives the per-connection lifecycle: joins, departures,
// message fan-out, and typing presence. Protocol-level failures (an unknown
// room id) go back to the requesting connection as error events, never as
// Go errors; returned errors mean the event could not be processed at all.
type ChatUsecase interface {
	HandleJoin(ctx context.Context, connID string, ev events.JoinRoomEvent) error
	HandleSendMessage(ctx context.Context, connID string, ev events.SendMessageEvent) error
	HandleTyping(ctx context.Context, connID string, ev events.TypingEvent)
	HandleDisconnect(ctx context.Context, connID string)
}

type chatUsecase struct {
	cfg *config.Config

	roomRegistry memory.RoomRegistry
	sessionRepo  memory.SessionRepository
	wsRepo       memory.WebsocketConnectionRepository
}

func NewChatUsecase(
	cfg *config.Config,
	roomRegistry memory.RoomRegistry,
	sessionRepo memory.SessionRepository,
	wsRepo memory.WebsocketConnectionRepository,
) ChatUsecase {
	return &chatUsecase{
		cfg:          cfg,
		roomRegistry: roomRegistry,
		sessionRepo:  sessionRepo,
		wsRepo:       wsRepo,
	}
}

func (uc *chatUsecase) HandleJoin(ctx context.Context, connID string, ev events.JoinRoomEvent) error {
	session, ok := uc.sessionRepo.Get(connID)
	if !ok {
		return fmt.Errorf("no session for connection %s", connID)
	}

	roomID := roomcode.Normalize(ev.RoomID)

	// Rejected joins leave the session untouched, including its current room.
	if !uc.roomRegistry.Exists(roomID) {
		uc.wsRepo.Write(connID, events.Outbound(events.TypeError, events.ErrorEvent{Message: roomNotFoundMessage}))
		return nil
	}

	// A connection belongs to at most one room; joining while active
	// departs the old room first.
	if session.Active() {
		uc.leaveRoom(session)
	}

	username := ev.Username
	if username == "" {
		username = models.FallbackUsername(connID)
	}

	participant := models.Participant{
		ID:       connID,
		Username: username,
		JoinedAt: time.Now(),
	}

	users, history, ok := uc.roomRegistry.AddMember(roomID, participant)
	if !ok {
		uc.wsRepo.Write(connID, events.Outbound(events.TypeError, events.ErrorEvent{Message: roomNotFoundMessage}))
		return nil
	}

	uc.sessionRepo.SetRoom(connID, roomID, username)

	// The joiner gets the full snapshot, everyone else the join notice.
	uc.wsRepo.Write(connID, events.Outbound(events.TypeJoinedRoom, events.JoinedRoomEvent{
		RoomID:   roomID,
		Users:    users,
		Messages: history,
	}))

	joined := events.Outbound(events.TypeUserJoined, events.UserJoinedEvent{User: participant, Users: users})
	for _, member := range users {
		if member.ID == connID {
			continue
		}
		uc.wsRepo.Write(member.ID, joined)
	}

	slog.Info(
		"user joined room",
		slog.String(constant.ConnID, connID),
		slog.String(constant.RoomID, roomID),
		slog.String(constant.Username, username),
	)

	return nil
}

func (uc *chatUsecase) HandleSendMessage(ctx context.Context, connID string, ev events.SendMessageEvent) error {
	roomID := roomcode.Normalize(ev.RoomID)

	// Author name comes from the session record, not the wire payload.
	username := models.FallbackUsername(connID)
	if session, ok := uc.sessionRepo.Get(connID); ok && session.Username != "" {
		username = session.Username
	}

	body := ev.Message
	if max := uc.cfg.MaxMessageLength; max > 0 && len([]rune(body)) > max {
		body = string([]rune(body)[:max])
	}

	msg := models.NewMessage(connID, username, body)

	users, ok := uc.roomRegistry.AppendMessage(roomID, msg)
	if !ok {
		uc.wsRepo.Write(connID, events.Outbound(events.TypeError, events.ErrorEvent{Message: roomNotFoundMessage}))
		return nil
	}

	// Single fan-out to every member, sender included.
	outbound := events.Outbound(events.TypeNewMessage, msg)
	for _, member := range users {
		uc.wsRepo.Write(member.ID, outbound)
	}

	metric.IncrementMessagesRelayed()

	return nil
}

// HandleTyping forwards the indicator to the other members. A stale or
// absent room id drops the event without an error, unlike message sends.
func (uc *chatUsecase) HandleTyping(ctx context.Context, connID string, ev events.TypingEvent) {
	users, ok := uc.roomRegistry.Members(roomcode.Normalize(ev.RoomID))
	if !ok {
		return
	}

	outbound := events.Outbound(events.TypeUserTyping, events.UserTypingEvent{
		Username: ev.Username,
		IsTyping: ev.IsTyping,
	})

	for _, member := range users {
		if member.ID == connID {
			continue
		}
		uc.wsRepo.Write(member.ID, outbound)
	}
}

// HandleDisconnect is the mandatory cleanup path; it runs whether or not the
// client ever joined a room.
func (uc *chatUsecase) HandleDisconnect(ctx context.Context, connID string) {
	session, ok := uc.sessionRepo.Get(connID)
	if !ok || !session.Active() {
		return
	}

	uc.leaveRoom(session)
}

func (uc *chatUsecase) leaveRoom(session memory.Session) {
	result, ok := uc.roomRegistry.RemoveMember(session.RoomID, session.ConnID)
	if !ok {
		uc.sessionRepo.ClearRoom(session.ConnID)
		return
	}

	uc.sessionRepo.ClearRoom(session.ConnID)

	left := events.Outbound(events.TypeUserLeft, events.UserLeftEvent{User: result.Member, Users: result.Users})
	for _, member := range result.Users {
		uc.wsRepo.Write(member.ID, left)
	}

	slog.Info(
		"user left room",
		slog.String(constant.ConnID, session.ConnID),
		slog.String(constant.RoomID, session.RoomID),
	)
}
