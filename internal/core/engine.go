package core

import (
	"context"
	"strings"
	"time"

	"github.com/hilthontt/drift/internal/domain"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
	"github.com/hilthontt/drift/internal/infrastructure/metrics"
)

const (
	statusSearching   = "Searching for a stranger..."
	statusConnected   = "You are connected to a stranger!"
	statusPartnerLeft = "Stranger has left. Searching for a new stranger..."

	defaultPublishInterval = 3 * time.Second
	defaultQueueSize       = 256
)

// Config wires an Engine. Emitter is required; the rest defaults to no-ops
// or sane values so tests can construct isolated instances.
type Config struct {
	Emitter         Emitter
	Audit           AuditSink
	Metrics         *metrics.Collectors
	Logger          logging.Logger
	AdminSecret     string
	PublishInterval time.Duration
	QueueSize       int
}

// Engine owns all mutable matchmaking state: the presence registry, the
// waiting slot, the room table, the observer set and the message counter.
// A single goroutine (Run) consumes inbound events and the broadcast tick;
// every handler runs to completion before the next event begins, which is
// what makes pairing deterministic without any locking.
type Engine struct {
	registry   *PresenceRegistry
	rooms      *RoomManager
	matchmaker *Matchmaker
	notifier   *BroadcastNotifier

	emitter Emitter
	audit   AuditSink
	metrics *metrics.Collectors
	logger  logging.Logger

	interval      time.Duration
	events        chan InboundEvent
	done          chan struct{}
	totalMessages int64
}

func NewEngine(cfg Config) *Engine {
	if cfg.Emitter == nil {
		panic("core: engine requires an emitter")
	}
	if cfg.Audit == nil {
		cfg.Audit = NopAuditSink{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = defaultPublishInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	registry := NewPresenceRegistry()
	rooms := NewRoomManager()

	return &Engine{
		registry:   registry,
		rooms:      rooms,
		matchmaker: NewMatchmaker(registry, rooms),
		notifier:   NewBroadcastNotifier(cfg.Emitter, cfg.AdminSecret),
		emitter:    cfg.Emitter,
		audit:      cfg.Audit,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		interval:   cfg.PublishInterval,
		events:     make(chan InboundEvent, cfg.QueueSize),
		done:       make(chan struct{}),
	}
}

// Run consumes events until ctx is cancelled. The broadcast tick is part of
// the same select so interval publishes observe the same non-torn state as
// event handlers.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info(logging.Engine, logging.Startup, "engine started",
		map[logging.ExtraKey]any{logging.Interval: e.interval.String()})

	for {
		select {
		case <-ctx.Done():
			e.logger.Info(logging.Engine, logging.Shutdown, "engine stopped", nil)
			return
		case ev := <-e.events:
			e.apply(ctx, ev)
		case <-ticker.C:
			// Interval task: skip the snapshot work entirely when nobody
			// is watching.
			if e.notifier.HasObservers() {
				e.notifier.Publish(e.buildSnapshot())
			}
		}
	}
}

// Dispatch enqueues an event for the loop. It reports false once the engine
// has stopped. The stopped check runs before the send: the buffered events
// channel stays ready after shutdown, and a random select pick would report
// success for an event nothing will ever consume.
func (e *Engine) Dispatch(ev InboundEvent) bool {
	select {
	case <-e.done:
		return false
	default:
	}

	select {
	case e.events <- ev:
		return true
	case <-e.done:
		return false
	}
}

// Snapshot reads a consistent debug snapshot through the event loop.
func (e *Engine) Snapshot(ctx context.Context) (domain.DebugSnapshot, error) {
	select {
	case <-e.done:
		return domain.DebugSnapshot{}, domain.ErrEngineClosed
	default:
	}

	req := snapshotRequest{reply: make(chan domain.DebugSnapshot, 1)}
	select {
	case e.events <- req:
	case <-e.done:
		return domain.DebugSnapshot{}, domain.ErrEngineClosed
	case <-ctx.Done():
		return domain.DebugSnapshot{}, ctx.Err()
	}

	select {
	case snap := <-req.reply:
		return snap, nil
	case <-e.done:
		// The loop may have replied just before stopping; the reply
		// channel is buffered, so drain it before giving up.
		select {
		case snap := <-req.reply:
			return snap, nil
		default:
			return domain.DebugSnapshot{}, domain.ErrEngineClosed
		}
	case <-ctx.Done():
		return domain.DebugSnapshot{}, ctx.Err()
	}
}

func (e *Engine) apply(ctx context.Context, ev InboundEvent) {
	switch ev := ev.(type) {
	case ConnectEvent:
		e.onConnect(ctx, ev)
	case DisconnectEvent:
		e.onDisconnect(ctx, ev)
	case MessageEvent:
		e.onMessage(ev)
	case TypingEvent:
		e.onTyping(ev)
	case SkipEvent:
		e.onSkip(ctx, ev)
	case AdminAuthEvent:
		e.onAdminAuth(ev)
	case AdminRefreshEvent:
		e.onAdminRefresh(ev)
	case snapshotRequest:
		ev.reply <- e.buildDebugSnapshot()
	}
}

func (e *Engine) onConnect(ctx context.Context, ev ConnectEvent) {
	p, err := e.registry.Register(ev.ID, ev.Addr)
	if err != nil {
		e.logger.Warn(logging.Engine, logging.Presence, "duplicate registration ignored",
			map[logging.ExtraKey]any{logging.ParticipantID: ev.ID})
		return
	}

	e.logger.Info(logging.Engine, logging.Presence, "participant connected",
		map[logging.ExtraKey]any{logging.ParticipantID: p.ID, logging.ClientIp: p.IP})

	e.emitter.EmitAll(NewOnlineCount(e.registry.Count()))

	if match := e.matchmaker.OnArrival(p); match != nil {
		e.announceMatch(ctx, p, match)
	} else {
		e.emitter.EmitTo(p.ID, NewStatus(statusSearching, false))
	}

	e.syncGauges()
	e.publish()
}

func (e *Engine) onDisconnect(ctx context.Context, ev DisconnectEvent) {
	e.notifier.Forget(ev.ID)

	p, ok := e.registry.Get(ev.ID)
	if !ok {
		return
	}

	e.registry.Remove(ev.ID)
	e.matchmaker.ClearIf(ev.ID)

	if p.InRoom() {
		e.dissolveRoom(ctx, p, DissolveReasonDisconnect)
	}

	e.logger.Info(logging.Engine, logging.Presence, "participant disconnected",
		map[logging.ExtraKey]any{logging.ParticipantID: ev.ID})

	e.emitter.EmitAll(NewOnlineCount(e.registry.Count()))
	e.syncGauges()
	e.publish()
}

func (e *Engine) onMessage(ev MessageEvent) {
	p, ok := e.registry.Get(ev.ID)
	if !ok || !p.InRoom() {
		return
	}
	if strings.TrimSpace(ev.Text) == "" {
		return
	}
	room, ok := e.rooms.Get(p.RoomID)
	if !ok {
		return
	}

	e.totalMessages++
	if e.metrics != nil {
		e.metrics.MessagesTotal.Inc()
	}

	if partnerID, ok := room.Partner(p.ID); ok {
		e.emitter.EmitTo(partnerID, NewReceiveMessage(ev.Text))
	}

	e.publish()
}

func (e *Engine) onTyping(ev TypingEvent) {
	p, ok := e.registry.Get(ev.ID)
	if !ok || !p.InRoom() {
		return
	}
	room, ok := e.rooms.Get(p.RoomID)
	if !ok {
		return
	}
	if partnerID, ok := room.Partner(p.ID); ok {
		e.emitter.EmitTo(partnerID, NewTyping(ev.IsTyping))
	}
}

func (e *Engine) onSkip(ctx context.Context, ev SkipEvent) {
	p, ok := e.registry.Get(ev.ID)
	if !ok {
		return
	}

	e.logger.Info(logging.Engine, logging.Pairing, "skip requested",
		map[logging.ExtraKey]any{logging.ParticipantID: p.ID})

	var formerPartnerID string
	if p.InRoom() {
		formerPartnerID = e.dissolveRoom(ctx, p, DissolveReasonSkip)
	}

	e.emitter.EmitTo(p.ID, NewStatus(statusSearching, false))
	if match := e.matchmaker.Free(p, formerPartnerID); match != nil {
		e.announceMatch(ctx, p, match)
	}

	e.syncGauges()
	e.publish()
}

func (e *Engine) onAdminAuth(ev AdminAuthEvent) {
	if _, ok := e.registry.Get(ev.ID); !ok {
		return
	}

	if !e.notifier.Authenticate(ev.ID, ev.Secret) {
		// No failure event by design: absence of adminAuthSuccess is the
		// only signal the caller gets.
		e.logger.Warn(logging.Engine, logging.AdminAuth, "admin authentication failed",
			map[logging.ExtraKey]any{logging.ParticipantID: ev.ID})
		return
	}

	e.logger.Info(logging.Engine, logging.AdminAuth, "admin authenticated",
		map[logging.ExtraKey]any{logging.ParticipantID: ev.ID})

	e.emitter.EmitTo(ev.ID, NewAdminAuthSuccess())
	e.emitter.EmitTo(ev.ID, NewAdminData(e.buildSnapshot()))
	e.syncGauges()
}

func (e *Engine) onAdminRefresh(ev AdminRefreshEvent) {
	if !e.notifier.IsObserver(ev.ID) {
		return
	}
	e.emitter.EmitTo(ev.ID, NewAdminData(e.buildSnapshot()))
}

// dissolveRoom removes leaver from its room, frees and notifies the
// abandoned partner, and reports the dissolution to the audit sink. The
// partner is re-queued before the leaver so an innocent partner gets the
// slot first; on a skip the pair is excluded from immediately re-matching
// with each other. Returns the former partner id ("" when the leaver was
// alone).
func (e *Engine) dissolveRoom(ctx context.Context, leaver *domain.Participant, reason string) string {
	room, ok := e.rooms.Get(leaver.RoomID)
	if !ok {
		leaver.RoomID = ""
		leaver.Status = domain.StatusWaiting
		return ""
	}
	audit := room.Clone()

	_, remainingID, _ := e.rooms.RemoveParticipant(leaver.ID)
	leaver.RoomID = ""
	leaver.Status = domain.StatusWaiting

	if remainingID != "" {
		if partner, ok := e.registry.Get(remainingID); ok {
			e.rooms.RemoveParticipant(partner.ID)
			partner.RoomID = ""
			partner.Status = domain.StatusWaiting

			e.emitter.EmitTo(partner.ID, NewStatus(statusPartnerLeft, false))

			exclude := ""
			if reason == DissolveReasonSkip {
				exclude = leaver.ID
			}
			if match := e.matchmaker.Free(partner, exclude); match != nil {
				e.announceMatch(ctx, partner, match)
			}
		}
	}

	e.audit.PairDissolved(ctx, audit, reason)

	e.logger.Info(logging.Engine, logging.RoomLifecycle, "room dissolved",
		map[logging.ExtraKey]any{
			logging.RoomID:        audit.ID,
			logging.ParticipantID: leaver.ID,
			logging.Reason:        reason,
		})

	return remainingID
}

func (e *Engine) announceMatch(ctx context.Context, p *domain.Participant, match *Match) {
	e.emitter.EmitTo(p.ID, NewStatus(statusConnected, true))
	e.emitter.EmitTo(match.Partner.ID, NewStatus(statusConnected, true))
	e.audit.PairFormed(ctx, match.Room.Clone())
	if e.metrics != nil {
		e.metrics.PairingsTotal.Inc()
	}

	e.logger.Info(logging.Engine, logging.Pairing, "room created",
		map[logging.ExtraKey]any{
			logging.RoomID:        match.Room.ID,
			logging.ParticipantID: p.ID,
			logging.PartnerID:     match.Partner.ID,
		})
}

func (e *Engine) publish() {
	if !e.notifier.HasObservers() {
		return
	}
	e.notifier.Publish(e.buildSnapshot())
}

func (e *Engine) buildSnapshot() domain.Snapshot {
	var waiting *string
	waitingCount := 0
	if id := e.matchmaker.WaitingID(); id != "" {
		waiting = &id
		waitingCount = 1
	}

	return domain.Snapshot{
		OnlineUsers: e.registry.All(),
		WaitingUser: waiting,
		ActiveRooms: e.rooms.Snapshot(e.registry),
		Stats: domain.Stats{
			TotalOnline:   e.registry.Count(),
			TotalRooms:    e.rooms.Count(),
			WaitingUsers:  waitingCount,
			TotalMessages: e.totalMessages,
		},
		Timestamp: time.Now().UTC(),
	}
}

func (e *Engine) buildDebugSnapshot() domain.DebugSnapshot {
	return domain.DebugSnapshot{
		Snapshot:         e.buildSnapshot(),
		AdminConnections: e.notifier.ObserverIDs(),
	}
}

func (e *Engine) syncGauges() {
	if e.metrics == nil {
		return
	}
	e.metrics.OnlineParticipants.Set(float64(e.registry.Count()))
	e.metrics.ActiveRooms.Set(float64(e.rooms.Count()))
	if e.matchmaker.WaitingID() != "" {
		e.metrics.WaitingParticipants.Set(1)
	} else {
		e.metrics.WaitingParticipants.Set(0)
	}
	e.metrics.AdminObservers.Set(float64(e.notifier.ObserverCount()))
}
