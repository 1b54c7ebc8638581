package ws

import (
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hilthontt/drift/internal/core"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
)

// Dispatcher is the inbound half of the engine seen from the gateway.
type Dispatcher interface {
	Dispatch(ev core.InboundEvent) bool
}

// Gateway owns every live websocket connection. It assigns ephemeral ids,
// feeds decoded frames to the engine, and implements core.Emitter for the
// outbound direction.
type Gateway struct {
	upgrader websocket.Upgrader
	logger   logging.Logger

	engine Dispatcher

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewGateway(logger logging.Logger) *Gateway {
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Anonymous chat has no credentialed origin to pin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[string]*Client),
	}
}

// Attach wires the engine in after construction. The gateway is built first
// because the engine needs it as Emitter.
func (gw *Gateway) Attach(engine Dispatcher) {
	gw.engine = engine
}

func (gw *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := gw.upgrader.Upgrade(w, r, nil)
	if err != nil {
		gw.logger.Warn(logging.WebSocket, logging.Presence, "upgrade failed",
			map[logging.ExtraKey]any{logging.ErrorMessage: err.Error()})
		return
	}

	client := newClient(conn, uuid.NewString(), clientIP(r), gw.logger)

	gw.mu.Lock()
	gw.clients[client.ID] = client
	gw.mu.Unlock()

	go client.writePump()

	if !gw.engine.Dispatch(core.ConnectEvent{ID: client.ID, Addr: client.Addr}) {
		gw.remove(client)
		return
	}

	go client.readPump(gw, gw.engine)
}

// EmitTo queues an event for one connection. Full buffers drop the event
// instead of blocking the caller, which runs on the engine loop. The send
// happens under the read lock so it cannot race the close in remove.
func (gw *Gateway) EmitTo(id string, ev core.Event) {
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	client, ok := gw.clients[id]
	if !ok {
		return
	}

	select {
	case client.send <- ev:
	default:
		gw.logger.Warn(logging.WebSocket, logging.Presence, "send buffer full, dropping event",
			map[logging.ExtraKey]any{logging.ParticipantID: id, logging.EventName: ev.Name})
	}
}

func (gw *Gateway) EmitAll(ev core.Event) {
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	for id, client := range gw.clients {
		select {
		case client.send <- ev:
		default:
			gw.logger.Warn(logging.WebSocket, logging.Presence, "send buffer full, dropping event",
				map[logging.ExtraKey]any{logging.ParticipantID: id, logging.EventName: ev.Name})
		}
	}
}

// ConnectionCount reports live sockets, which can briefly differ from the
// engine's registry during connect/disconnect handoff.
func (gw *Gateway) ConnectionCount() int {
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	return len(gw.clients)
}

func (gw *Gateway) remove(c *Client) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if current, ok := gw.clients[c.ID]; ok && current == c {
		delete(gw.clients, c.ID)
		close(c.send)
	}
}

// clientIP prefers proxy headers and falls back to the socket address,
// stripping IPv4-mapped prefixes so the admin view shows plain addresses.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			fwd = fwd[:idx]
		}
		addr = strings.TrimSpace(fwd)
	} else if real := r.Header.Get("X-Real-Ip"); real != "" {
		addr = real
	} else if idx := strings.LastIndexByte(addr, ':'); idx >= 0 && strings.Count(addr, ":") == 1 {
		addr = addr[:idx]
	}

	return strings.TrimPrefix(addr, "::ffff:")
}
