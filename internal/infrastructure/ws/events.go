package ws

// Inbound event names accepted from browsers.
const (
	inboundSendMessage  = "sendMessage"
	inboundTyping       = "typing"
	inboundSkipChat     = "skipChat"
	inboundAdminAuth    = "adminAuth"
	inboundAdminRefresh = "adminRefresh"
)
