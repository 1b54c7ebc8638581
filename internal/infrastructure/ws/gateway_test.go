package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilthontt/drift/internal/core"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
)

type captureDispatcher struct {
	mu     sync.Mutex
	events []core.InboundEvent
}

func (d *captureDispatcher) Dispatch(ev core.InboundEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	return true
}

func (d *captureDispatcher) snapshot() []core.InboundEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]core.InboundEvent(nil), d.events...)
}

func (d *captureDispatcher) connectID() string {
	for _, ev := range d.snapshot() {
		if c, ok := ev.(core.ConnectEvent); ok {
			return c.ID
		}
	}
	return ""
}

func newGatewayFixture(t *testing.T) (*Gateway, *captureDispatcher, *websocket.Conn) {
	t.Helper()

	gw := NewGateway(logging.NewNopLogger())
	dispatcher := &captureDispatcher{}
	gw.Attach(dispatcher)

	srv := httptest.NewServer(http.HandlerFunc(gw.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return gw, dispatcher, conn
}

func TestGateway_ConnectDispatchesEvent(t *testing.T) {
	gw, dispatcher, _ := newGatewayFixture(t)

	require.Eventually(t, func() bool {
		return dispatcher.connectID() != ""
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, gw.ConnectionCount())
}

func TestGateway_InboundFramesReachDispatcher(t *testing.T) {
	_, dispatcher, conn := newGatewayFixture(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"sendMessage","data":"hi"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`garbage that is not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"skipChat"}`)))

	require.Eventually(t, func() bool {
		var sawMessage, sawSkip bool
		for _, ev := range dispatcher.snapshot() {
			switch ev.(type) {
			case core.MessageEvent:
				sawMessage = true
			case core.SkipEvent:
				sawSkip = true
			}
		}
		return sawMessage && sawSkip
	}, time.Second, 10*time.Millisecond)

	// The malformed frame is dropped, never dispatched.
	for _, ev := range dispatcher.snapshot() {
		if msg, ok := ev.(core.MessageEvent); ok {
			assert.Equal(t, "hi", msg.Text)
		}
	}
}

func TestGateway_EmitToDeliversToClient(t *testing.T) {
	gw, dispatcher, conn := newGatewayFixture(t)

	require.Eventually(t, func() bool {
		return dispatcher.connectID() != ""
	}, time.Second, 10*time.Millisecond)

	gw.EmitTo(dispatcher.connectID(), core.NewOnlineCount(5))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got core.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, core.EventOnlineCount, got.Name)
	assert.Equal(t, float64(5), got.Data)
}

func TestGateway_EmitToUnknownIDIsNoop(t *testing.T) {
	gw := NewGateway(logging.NewNopLogger())
	gw.Attach(&captureDispatcher{})

	gw.EmitTo("nobody", core.NewOnlineCount(1))
}

func TestGateway_DisconnectCleansUp(t *testing.T) {
	gw, dispatcher, conn := newGatewayFixture(t)

	require.Eventually(t, func() bool {
		return gw.ConnectionCount() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return gw.ConnectionCount() == 0
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		for _, ev := range dispatcher.snapshot() {
			if _, ok := ev.(core.DisconnectEvent); ok {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "forwarded-for first hop",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"},
			remote:  "127.0.0.1:5555",
			want:    "1.2.3.4",
		},
		{
			name:    "real-ip fallback",
			headers: map[string]string{"X-Real-Ip": "5.6.7.8"},
			remote:  "127.0.0.1:5555",
			want:    "5.6.7.8",
		},
		{
			name:   "plain remote addr",
			remote: "192.168.1.9:5555",
			want:   "192.168.1.9",
		},
		{
			name:    "ipv4-mapped prefix stripped",
			headers: map[string]string{"X-Real-Ip": "::ffff:9.8.7.6"},
			remote:  "127.0.0.1:5555",
			want:    "9.8.7.6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(r))
		})
	}
}
