package core

import (
	"time"

	"github.com/hilthontt/drift/internal/domain"
)

// PresenceRegistry tracks every currently connected participant. It is
// owned by the engine goroutine and therefore needs no locking; callers
// are responsible for notifying dependents of changes.
type PresenceRegistry struct {
	participants map[string]*domain.Participant
	order        []string
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		participants: make(map[string]*domain.Participant),
	}
}

// Register adds a new participant in the waiting state. A duplicate id is a
// gateway contract violation: the call fails and the existing entry is left
// untouched.
func (r *PresenceRegistry) Register(id, ip string) (*domain.Participant, error) {
	if _, exists := r.participants[id]; exists {
		return nil, domain.ErrAlreadyRegistered
	}

	p := &domain.Participant{
		ID:          id,
		IP:          ip,
		ConnectedAt: time.Now(),
		Status:      domain.StatusWaiting,
	}
	r.participants[id] = p
	r.order = append(r.order, id)

	return p, nil
}

// Remove is idempotent; removing an unknown id is a no-op.
func (r *PresenceRegistry) Remove(id string) {
	if _, exists := r.participants[id]; !exists {
		return
	}
	delete(r.participants, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *PresenceRegistry) Get(id string) (*domain.Participant, bool) {
	p, ok := r.participants[id]
	return p, ok
}

func (r *PresenceRegistry) Count() int {
	return len(r.participants)
}

// All returns value copies of every participant in connection order.
func (r *PresenceRegistry) All() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.participants))
	for _, id := range r.order {
		if p, ok := r.participants[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}
