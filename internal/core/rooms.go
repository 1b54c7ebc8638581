package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/drift/internal/domain"
)

// RoomManager owns room creation, membership mutation and garbage
// collection of empty rooms. Like the registry it is owned by the engine
// goroutine and does no locking of its own.
type RoomManager struct {
	rooms map[string]*domain.Room
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*domain.Room),
	}
}

// Create allocates a room for exactly these two members. Callers must mark
// both participants' RoomID and status.
func (rm *RoomManager) Create(arrivingID, waitingID string) *domain.Room {
	room := &domain.Room{
		ID:        uuid.NewString(),
		Users:     []string{arrivingID, waitingID},
		CreatedAt: time.Now(),
	}
	rm.rooms[room.ID] = room
	return room
}

func (rm *RoomManager) Get(roomID string) (*domain.Room, bool) {
	room, ok := rm.rooms[roomID]
	return room, ok
}

func (rm *RoomManager) Count() int {
	return len(rm.rooms)
}

// RemoveParticipant locates the room containing id (at most one, by
// invariant) and removes id from its member set. The room is deleted once
// its member set is empty. It returns the mutated room and the id of the
// remaining member, if any, so the caller can notify and re-queue them.
func (rm *RoomManager) RemoveParticipant(id string) (room *domain.Room, remainingID string, found bool) {
	for _, r := range rm.rooms {
		if !r.Contains(id) {
			continue
		}

		users := r.Users[:0]
		for _, u := range r.Users {
			if u != id {
				users = append(users, u)
			}
		}
		r.Users = users

		if len(r.Users) == 0 {
			delete(rm.rooms, r.ID)
		} else {
			remainingID = r.Users[0]
		}
		return r, remainingID, true
	}
	return nil, "", false
}

// Snapshot returns rooms whose member set, filtered to currently registered
// participants, is non-empty. Rooms that turn out to be fully empty are
// pruned as a side effect.
func (rm *RoomManager) Snapshot(registry *PresenceRegistry) []domain.Room {
	out := make([]domain.Room, 0, len(rm.rooms))
	for id, r := range rm.rooms {
		live := make([]string, 0, len(r.Users))
		for _, u := range r.Users {
			if _, ok := registry.Get(u); ok {
				live = append(live, u)
			}
		}
		if len(live) == 0 {
			delete(rm.rooms, id)
			continue
		}
		cp := r.Clone()
		cp.Users = live
		out = append(out, cp)
	}
	return out
}
