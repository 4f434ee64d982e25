package usecase

import (
	"context"
	"fmt"

	"github.com/nidhiknayak/MeetSpace/internal/domain/events"
	"github.com/nidhiknayak/MeetSpace/internal/infra/adapters/memory"
	"github.com/nidhiknayak/MeetSpace/internal/roomcode"
)

type RoomUsecase interface {
	// CreateRoom allocates a fresh empty room. The creator is not joined to
	// it; joining is a separate request against the returned id.
	CreateRoom(ctx context.Context) (string, error)

	// RoomInfo is the read-only pre-join existence check.
	RoomInfo(ctx context.Context, roomID string) events.RoomInfoEvent
}

type roomUsecase struct {
	roomRegistry memory.RoomRegistry
}

func NewRoomUsecase(roomRegistry memory.RoomRegistry) RoomUsecase {
	return &roomUsecase{roomRegistry: roomRegistry}
}

func (uc *roomUsecase) CreateRoom(ctx context.Context) (string, error) {
	roomID, err := uc.roomRegistry.Create()
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}

	return roomID, nil
}

func (uc *roomUsecase) RoomInfo(ctx context.Context, roomID string) events.RoomInfoEvent {
	count, exists := uc.roomRegistry.Info(roomcode.Normalize(roomID))
	if !exists {
		return events.RoomInfoEvent{Exists: false}
	}

	return events.RoomInfoEvent{Exists: true, UserCount: count}
}
