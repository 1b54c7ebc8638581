package core

import "github.com/hilthontt/drift/internal/domain"

// Matchmaker holds the single-slot waiting rendezvous: at most one
// unmatched participant, not a queue. Capacity one gives O(1) pairing with
// no bookkeeping; under a burst of arrivals the pairing order is simply the
// event-processing order.
type Matchmaker struct {
	registry *PresenceRegistry
	rooms    *RoomManager
	slot     string
}

// Match reports a successful pairing back to the engine so it can notify
// both parties.
type Match struct {
	Room    *domain.Room
	Partner *domain.Participant
}

func NewMatchmaker(registry *PresenceRegistry, rooms *RoomManager) *Matchmaker {
	return &Matchmaker{
		registry: registry,
		rooms:    rooms,
	}
}

// WaitingID returns the current slot occupant, or "" when the slot is
// vacant.
func (m *Matchmaker) WaitingID() string {
	return m.slot
}

// ClearIf vacates the slot when id is its occupant; used on disconnect.
func (m *Matchmaker) ClearIf(id string) {
	if m.slot == id {
		m.slot = ""
	}
}

// OnArrival pairs a newly connected participant with the slot occupant, or
// parks the participant in the slot when no partner is available. A non-nil
// Match means a room was created and both participants are now chatting.
func (m *Matchmaker) OnArrival(p *domain.Participant) *Match {
	return m.free(p, "")
}

// Free re-queues a participant released by a skip or a partner departure.
// excludeID names the partner of the room the participant just skipped out
// of: if that same participant holds the slot, the two are not re-paired
// and the freed participant keeps waiting without displacing the slot.
func (m *Matchmaker) Free(p *domain.Participant, excludeID string) *Match {
	return m.free(p, excludeID)
}

func (m *Matchmaker) free(p *domain.Participant, excludeID string) *Match {
	if m.slot != "" {
		occupant, ok := m.registry.Get(m.slot)
		if !ok || occupant.InRoom() {
			// The recorded occupant vanished or got placed between being
			// recorded and being selected. Abandon that pairing silently.
			m.slot = ""
		}
	}

	p.Status = domain.StatusWaiting

	if m.slot == "" {
		m.slot = p.ID
		return nil
	}
	if m.slot == p.ID || m.slot == excludeID {
		return nil
	}

	partner, _ := m.registry.Get(m.slot)
	room := m.rooms.Create(p.ID, partner.ID)
	m.slot = ""

	p.RoomID = room.ID
	p.Status = domain.StatusChatting
	partner.RoomID = room.ID
	partner.Status = domain.StatusChatting

	return &Match{Room: room, Partner: partner}
}
