package domain

import "time"

// Stats are the aggregate counters pushed to admin observers. WaitingUsers
// is 0 or 1: the rendezvous is a single slot, not a queue. TotalMessages is
// monotonically non-decreasing for the lifetime of the process.
type Stats struct {
	TotalOnline   int   `json:"totalOnline"`
	TotalRooms    int   `json:"totalRooms"`
	WaitingUsers  int   `json:"waitingUsers"`
	TotalMessages int64 `json:"totalMessages"`
}

// Snapshot is the aggregated read-only view of presence, rooms and counters
// pushed to admin observers.
type Snapshot struct {
	OnlineUsers []Participant `json:"onlineUsers"`
	WaitingUser *string       `json:"waitingUser"`
	ActiveRooms []Room        `json:"activeRooms"`
	Stats       Stats         `json:"stats"`
	Timestamp   time.Time     `json:"timestamp"`
}

// DebugSnapshot extends the admin snapshot with the observer set; it backs
// the /debug-data endpoint.
type DebugSnapshot struct {
	Snapshot
	AdminConnections []string `json:"adminConnections"`
}
