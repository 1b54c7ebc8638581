package core

import "github.com/hilthontt/drift/internal/domain"

// Event is the outbound wire envelope pushed to participants.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Outbound event names.
const (
	EventStatus           = "status"
	EventReceiveMessage   = "receiveMessage"
	EventTyping           = "typing"
	EventOnlineCount      = "updateOnlineCount"
	EventAdminData        = "adminData"
	EventAdminAuthSuccess = "adminAuthSuccess"
)

// Emitter is the outbound half of the connection gateway. The engine emits
// to one connection or to all of them; room-targeted delivery is expressed
// as an emit to the partner id.
type Emitter interface {
	EmitTo(id string, ev Event)
	EmitAll(ev Event)
}

type StatusPayload struct {
	Message   string `json:"message"`
	Connected bool   `json:"connected"`
	Clear     bool   `json:"clear"`
}

func NewStatus(message string, connected bool) Event {
	return Event{
		Name: EventStatus,
		Data: StatusPayload{
			Message:   message,
			Connected: connected,
			Clear:     true,
		},
	}
}

func NewReceiveMessage(text string) Event {
	return Event{Name: EventReceiveMessage, Data: text}
}

func NewTyping(isTyping bool) Event {
	return Event{Name: EventTyping, Data: isTyping}
}

func NewOnlineCount(count int) Event {
	return Event{Name: EventOnlineCount, Data: count}
}

func NewAdminData(snap domain.Snapshot) Event {
	return Event{Name: EventAdminData, Data: snap}
}

func NewAdminAuthSuccess() Event {
	return Event{Name: EventAdminAuthSuccess}
}
