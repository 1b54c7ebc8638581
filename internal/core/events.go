package core

import (
	"context"

	"github.com/hilthontt/drift/internal/domain"
)

// InboundEvent is the closed set of events the gateway may dispatch into
// the engine. Payloads are validated at the gateway boundary, so the engine
// can assume well-typed input.
type InboundEvent interface {
	isInbound()
}

type ConnectEvent struct {
	ID   string
	Addr string
}

type DisconnectEvent struct {
	ID string
}

type MessageEvent struct {
	ID   string
	Text string
}

type TypingEvent struct {
	ID       string
	IsTyping bool
}

type SkipEvent struct {
	ID string
}

type AdminAuthEvent struct {
	ID     string
	Secret string
}

type AdminRefreshEvent struct {
	ID string
}

// snapshotRequest is internal: it lets HTTP handlers and tests read a
// consistent snapshot through the event loop instead of racing it.
type snapshotRequest struct {
	reply chan domain.DebugSnapshot
}

func (ConnectEvent) isInbound()      {}
func (DisconnectEvent) isInbound()   {}
func (MessageEvent) isInbound()      {}
func (TypingEvent) isInbound()       {}
func (SkipEvent) isInbound()         {}
func (AdminAuthEvent) isInbound()    {}
func (AdminRefreshEvent) isInbound() {}
func (snapshotRequest) isInbound()   {}

// AuditSink receives room lifecycle events for out-of-process consumers.
// Implementations must not block the event loop for long; publishing
// failures are theirs to report.
type AuditSink interface {
	PairFormed(ctx context.Context, room domain.Room)
	PairDissolved(ctx context.Context, room domain.Room, reason string)
}

// NopAuditSink discards all lifecycle events.
type NopAuditSink struct{}

func (NopAuditSink) PairFormed(context.Context, domain.Room)            {}
func (NopAuditSink) PairDissolved(context.Context, domain.Room, string) {}

// Dissolution reasons reported to the audit sink.
const (
	DissolveReasonSkip       = "skip"
	DissolveReasonDisconnect = "disconnect"
)
