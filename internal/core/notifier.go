package core

import (
	"crypto/subtle"
	"sort"

	"github.com/hilthontt/drift/internal/domain"
)

// BroadcastNotifier maintains the set of admin observers and pushes the
// aggregate snapshot to them. Authentication is a constant-time comparison
// against the configured shared secret; a failed attempt produces no
// observable effect for the caller.
type BroadcastNotifier struct {
	emitter   Emitter
	secret    []byte
	observers map[string]struct{}
}

func NewBroadcastNotifier(emitter Emitter, secret string) *BroadcastNotifier {
	return &BroadcastNotifier{
		emitter:   emitter,
		secret:    []byte(secret),
		observers: make(map[string]struct{}),
	}
}

// Authenticate grants id elevated broadcast visibility when the supplied
// secret matches. The caller is responsible for the success notification
// and the immediate targeted snapshot push.
func (n *BroadcastNotifier) Authenticate(id, supplied string) bool {
	if len(n.secret) == 0 {
		return false
	}
	if subtle.ConstantTimeCompare(n.secret, []byte(supplied)) != 1 {
		return false
	}
	n.observers[id] = struct{}{}
	return true
}

// Forget drops id from the observer set; a no-op for non-observers.
func (n *BroadcastNotifier) Forget(id string) {
	delete(n.observers, id)
}

func (n *BroadcastNotifier) IsObserver(id string) bool {
	_, ok := n.observers[id]
	return ok
}

func (n *BroadcastNotifier) HasObservers() bool {
	return len(n.observers) > 0
}

func (n *BroadcastNotifier) ObserverCount() int {
	return len(n.observers)
}

func (n *BroadcastNotifier) ObserverIDs() []string {
	ids := make([]string, 0, len(n.observers))
	for id := range n.observers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Publish pushes the snapshot to every observer. Callers should skip the
// snapshot computation entirely when HasObservers reports false.
func (n *BroadcastNotifier) Publish(snap domain.Snapshot) {
	if len(n.observers) == 0 {
		return
	}
	ev := NewAdminData(snap)
	for id := range n.observers {
		n.emitter.EmitTo(id, ev)
	}
}
