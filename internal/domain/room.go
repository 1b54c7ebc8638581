package domain

import "time"

// Room is a two-party chat session container. Members is ordered: the
// arriving participant first, the previously waiting participant second.
// The member set shrinks as participants leave; a room with zero members
// does not outlive the event that emptied it.
type Room struct {
	ID        string    `json:"id"`
	Users     []string  `json:"users"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Room) Contains(id string) bool {
	for _, u := range r.Users {
		if u == id {
			return true
		}
	}
	return false
}

// Partner returns the other member of the room, if one remains.
func (r *Room) Partner(id string) (string, bool) {
	for _, u := range r.Users {
		if u != id {
			return u, true
		}
	}
	return "", false
}

// Clone returns a copy with its own member slice, safe to hand to
// snapshot consumers and event sinks.
func (r *Room) Clone() Room {
	cp := *r
	cp.Users = append([]string(nil), r.Users...)
	return cp
}
