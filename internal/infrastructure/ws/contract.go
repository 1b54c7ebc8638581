package ws

import (
	"encoding/json"
	"strings"

	"github.com/hilthontt/drift/internal/core"
)

// inboundEnvelope is the raw frame shape sent by browsers.
type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// decodeInbound maps a raw frame onto a typed engine event. Unknown event
// names and malformed payloads return false and are dropped; a hostile
// frame must never reach the engine half-parsed.
func decodeInbound(id string, raw []byte) (core.InboundEvent, bool) {
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}

	switch env.Event {
	case inboundSendMessage:
		var text string
		if err := json.Unmarshal(env.Data, &text); err != nil {
			return nil, false
		}
		if strings.TrimSpace(text) == "" {
			return nil, false
		}
		return core.MessageEvent{ID: id, Text: text}, true

	case inboundTyping:
		var isTyping bool
		if err := json.Unmarshal(env.Data, &isTyping); err != nil {
			return nil, false
		}
		return core.TypingEvent{ID: id, IsTyping: isTyping}, true

	case inboundSkipChat:
		return core.SkipEvent{ID: id}, true

	case inboundAdminAuth:
		var secret string
		if err := json.Unmarshal(env.Data, &secret); err != nil {
			return nil, false
		}
		return core.AdminAuthEvent{ID: id, Secret: secret}, true

	case inboundAdminRefresh:
		return core.AdminRefreshEvent{ID: id}, true

	default:
		return nil, false
	}
}
