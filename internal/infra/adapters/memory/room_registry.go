package memory

import (
	"sync"

	"github.com/nidhiknayak/MeetSpace/internal/application/metric"
	"github.com/nidhiknayak/MeetSpace/internal/domain/models"
)

// CodeGenerator produces candidate room codes. Collisions with live rooms
// are handled here, not by the generator.
type CodeGenerator func() (string, error)

// RemoveResult describes the state of a room right after a member left.
type RemoveResult struct {
	Member      models.Participant
	Users       []models.Participant
	RoomDeleted bool
}

// RoomRegistry owns the room table. Every operation that touches a room's
// members or history runs as a single step under the registry lock, which
// linearizes concurrent events against the same room.
type RoomRegistry interface {
	// Create allocates an empty room under a fresh code and returns it.
	Create() (string, error)

	// Exists reports whether a room is live.
	Exists(roomID string) bool

	// Delete removes a room. Deleting an absent id is a no-op.
	Delete(roomID string)

	// Info returns the member count for a live room.
	Info(roomID string) (int, bool)

	// AddMember inserts a participant and returns the post-join member list
	// and history snapshot. Returns false when the room does not exist.
	AddMember(roomID string, p models.Participant) ([]models.Participant, []models.Message, bool)

	// RemoveMember removes a participant, deleting the room when it empties.
	// Returns false when the room or the member does not exist.
	RemoveMember(roomID, connID string) (RemoveResult, bool)

	// AppendMessage appends to the room history in arrival order and returns
	// the resulting member list for fan-out.
	AppendMessage(roomID string, msg models.Message) ([]models.Participant, bool)

	// Members returns the member list in join order.
	Members(roomID string) ([]models.Participant, bool)
}

type roomRegistry struct {
	rooms    map[string]*models.Room
	generate CodeGenerator

	mu sync.RWMutex
}

func NewRoomRegistry(generate CodeGenerator) RoomRegistry {
	return &roomRegistry{
		rooms:    make(map[string]*models.Room),
		generate: generate,
	}
}

func (r *roomRegistry) Create() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Regenerate on collision with a live room. Codes of deleted rooms may
	// be handed out again; deleted rooms carry no residual state.
	var code string
	for {
		c, err := r.generate()
		if err != nil {
			return "", err
		}
		if _, exists := r.rooms[c]; !exists {
			code = c
			break
		}
	}

	r.rooms[code] = &models.Room{ID: code}

	metric.IncrementActiveRooms()

	return code, nil
}

func (r *roomRegistry) Exists(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.rooms[roomID]
	return exists
}

func (r *roomRegistry) Delete(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[roomID]; exists {
		delete(r.rooms, roomID)
		metric.DecrementActiveRooms()
	}
}

func (r *roomRegistry) Info(roomID string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return 0, false
	}

	return len(room.Members), true
}

func (r *roomRegistry) AddMember(roomID string, p models.Participant) ([]models.Participant, []models.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return nil, nil, false
	}

	replaced := false
	for i := range room.Members {
		if room.Members[i].ID == p.ID {
			room.Members[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		room.Members = append(room.Members, p)
	}

	return snapshotMembers(room), snapshotHistory(room), true
}

func (r *roomRegistry) RemoveMember(roomID, connID string) (RemoveResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return RemoveResult{}, false
	}

	for i, m := range room.Members {
		if m.ID != connID {
			continue
		}

		room.Members = append(room.Members[:i], room.Members[i+1:]...)

		result := RemoveResult{Member: m, Users: snapshotMembers(room)}

		// Empty rooms never outlive the departure that emptied them.
		if len(room.Members) == 0 {
			delete(r.rooms, roomID)
			metric.DecrementActiveRooms()
			result.RoomDeleted = true
		}

		return result, true
	}

	return RemoveResult{}, false
}

func (r *roomRegistry) AppendMessage(roomID string, msg models.Message) ([]models.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return nil, false
	}

	room.History = append(room.History, msg)

	return snapshotMembers(room), true
}

func (r *roomRegistry) Members(roomID string) ([]models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return nil, false
	}

	return snapshotMembers(room), true
}

func snapshotMembers(room *models.Room) []models.Participant {
	users := make([]models.Participant, len(room.Members))
	copy(users, room.Members)
	return users
}

func snapshotHistory(room *models.Room) []models.Message {
	history := make([]models.Message, len(room.History))
	copy(history, room.History)
	return history
}
