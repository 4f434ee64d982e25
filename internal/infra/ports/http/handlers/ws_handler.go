package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nidhiknayak/MeetSpace/internal/application/config"
	"github.com/nidhiknayak/MeetSpace/internal/application/constant"
	"github.com/nidhiknayak/MeetSpace/internal/application/metric"
	"github.com/nidhiknayak/MeetSpace/internal/domain/events"
	"github.com/nidhiknayak/MeetSpace/internal/infra/adapters/memory"
	"github.com/nidhiknayak/MeetSpace/internal/usecase"
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	roomUsecase usecase.RoomUsecase
	chatUsecase usecase.ChatUsecase

	sessionRepo memory.SessionRepository
	wsConnRepo  memory.WebsocketConnectionRepository
}

func NewWebSocketHandler(
	cfg *config.Config,
	roomUsecase usecase.RoomUsecase,
	chatUsecase usecase.ChatUsecase,
	sessionRepo memory.SessionRepository,
	wsConnRepo memory.WebsocketConnectionRepository,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		roomUsecase: roomUsecase,
		chatUsecase: chatUsecase,
		sessionRepo: sessionRepo,
		wsConnRepo:  wsConnRepo,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	// Connection identity is the transport-level connection id only.
	connID := uuid.NewString()

	h.sessionRepo.Add(connID)
	h.wsConnRepo.Add(connID, ws)
	defer func() {
		// Abrupt disconnects run the same cleanup as explicit departures.
		h.chatUsecase.HandleDisconnect(c.Request().Context(), connID)
		h.wsConnRepo.Remove(connID)
		h.sessionRepo.Remove(connID)
	}()

	h.wsConnRepo.Write(connID, events.Outbound(events.TypeConnected, events.ConnectedEvent{ConnectionID: connID}))

	err = ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	if err != nil {
		return err
	}
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				// WriteControl is safe to call concurrently with the data writes.
				if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			case <-c.Request().Context().Done():
				return
			}
		}
	}()

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			h.handleWebsocketError(connID, err)
			return nil
		}

		inbound := new(events.Message)

		if err = json.Unmarshal(msg, inbound); err != nil {
			slog.Error("unmarshal websocket message", slog.Any(constant.Error, err))
			continue
		}

		metric.RecordInboundEvent(inbound.Type)

		if err = h.handleMessage(c.Request().Context(), connID, inbound); err != nil {
			slog.Error(
				"handle message",
				slog.Any(constant.Error, err),
				slog.String(constant.ConnID, connID),
			)
		}
	}
}

func (h *WebSocketHandler) handleMessage(
	ctx context.Context,
	connID string,
	msg *events.Message,
) error {
	switch msg.Type {
	case events.TypeCreateRoom:
		roomID, err := h.roomUsecase.CreateRoom(ctx)
		if err != nil {
			return fmt.Errorf("create room: %w", err)
		}

		h.wsConnRepo.Write(connID, events.Outbound(events.TypeRoomCreated, events.RoomCreatedEvent{RoomID: roomID}))

	case events.TypeJoinRoom:
		var joinEvent events.JoinRoomEvent

		if err := json.Unmarshal(msg.Data, &joinEvent); err != nil {
			return fmt.Errorf("unmarshal join event: %w", err)
		}

		if err := h.chatUsecase.HandleJoin(ctx, connID, joinEvent); err != nil {
			return fmt.Errorf("handle join: %w", err)
		}

	case events.TypeSendMessage:
		var sendEvent events.SendMessageEvent

		if err := json.Unmarshal(msg.Data, &sendEvent); err != nil {
			return fmt.Errorf("unmarshal send event: %w", err)
		}

		if err := h.chatUsecase.HandleSendMessage(ctx, connID, sendEvent); err != nil {
			return fmt.Errorf("handle send message: %w", err)
		}

	case events.TypeTyping:
		var typingEvent events.TypingEvent

		if err := json.Unmarshal(msg.Data, &typingEvent); err != nil {
			return fmt.Errorf("unmarshal typing event: %w", err)
		}

		h.chatUsecase.HandleTyping(ctx, connID, typingEvent)

	case events.TypeGetRoomInfo:
		roomID, err := parseRoomInfoData(msg.Data)
		if err != nil {
			return fmt.Errorf("unmarshal room info request: %w", err)
		}

		info := h.roomUsecase.RoomInfo(ctx, roomID)
		h.wsConnRepo.Write(connID, events.Outbound(events.TypeRoomInfo, info))

	default:
		return errors.New("unknown message type")
	}

	return nil
}

// parseRoomInfoData accepts both `{"roomId": "..."}` and the bare string the
// reference client sends.
func parseRoomInfoData(data json.RawMessage) (string, error) {
	var roomID string
	if err := json.Unmarshal(data, &roomID); err == nil {
		return roomID, nil
	}

	var ev events.GetRoomInfoEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return "", err
	}

	return ev.RoomID, nil
}

func (h *WebSocketHandler) handleWebsocketError(connID string, err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			slog.Info("user disconnected from websocket", slog.String(constant.ConnID, connID))
		default:
			slog.Error("websocket close error", slog.String(constant.ConnID, connID))
		}
	} else {
		slog.Error(
			"websocket read",
			slog.Any(constant.Error, err),
			slog.String(constant.ConnID, connID),
		)
	}
}
