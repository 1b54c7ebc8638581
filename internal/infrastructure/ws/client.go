package ws

import (
	"github.com/gorilla/websocket"

	"github.com/hilthontt/drift/internal/core"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
)

// Client is one live websocket connection. Reads are decoded into typed
// engine events; writes drain the buffered send channel so a slow browser
// never stalls the event loop.
type Client struct {
	ID   string
	Addr string

	conn   *connWrapper
	send   chan core.Event
	logger logging.Logger
}

func newClient(conn *websocket.Conn, id, addr string, logger logging.Logger) *Client {
	return &Client{
		ID:     id,
		Addr:   addr,
		conn:   newConnWrapper(conn),
		send:   make(chan core.Event, 64), // buffered to absorb slow clients
		logger: logger,
	}
}

func (c *Client) readPump(gw *Gateway, engine Dispatcher) {
	defer func() {
		gw.remove(c)
		engine.Dispatch(core.DisconnectEvent{ID: c.ID})
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn(logging.WebSocket, logging.Presence, "read failed",
					map[logging.ExtraKey]any{logging.ParticipantID: c.ID, logging.ErrorMessage: err.Error()})
			}
			return
		}

		ev, ok := decodeInbound(c.ID, raw)
		if !ok {
			continue
		}

		if !engine.Dispatch(ev) {
			return
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			c.logger.Warn(logging.WebSocket, logging.Presence, "write failed",
				map[logging.ExtraKey]any{logging.ParticipantID: c.ID, logging.ErrorMessage: err.Error()})
			return
		}
	}
}
