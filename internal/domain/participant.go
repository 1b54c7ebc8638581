package domain

import "time"

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusChatting Status = "chatting"
)

// Participant is one connected end-user session. The ID is the opaque
// connection identifier assigned by the gateway and stays stable for the
// lifetime of the connection.
type Participant struct {
	ID          string    `json:"id"`
	IP          string    `json:"ip"`
	ConnectedAt time.Time `json:"connectedAt"`
	RoomID      string    `json:"room,omitempty"`
	Status      Status    `json:"status"`
}

func (p *Participant) InRoom() bool {
	return p.RoomID != ""
}
