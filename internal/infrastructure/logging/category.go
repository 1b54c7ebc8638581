package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Engine          Category = "Engine"
	WebSocket       Category = "WebSocket"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Engine
	Presence      SubCategory = "Presence"
	Pairing       SubCategory = "Pairing"
	RoomLifecycle SubCategory = "RoomLifecycle"
	AdminAuth     SubCategory = "AdminAuth"
)

const (
	AppName       ExtraKey = "AppName"
	LoggerName    ExtraKey = "Logger"
	ClientIp      ExtraKey = "ClientIp"
	HostIp        ExtraKey = "HostIp"
	Method        ExtraKey = "Method"
	StatusCode    ExtraKey = "StatusCode"
	BodySize      ExtraKey = "BodySize"
	Path          ExtraKey = "Path"
	Latency       ExtraKey = "Latency"
	ErrorMessage  ExtraKey = "ErrorMessage"
	ParticipantID ExtraKey = "ParticipantId"
	PartnerID     ExtraKey = "PartnerId"
	RoomID        ExtraKey = "RoomId"
	Interval      ExtraKey = "Interval"
	Reason        ExtraKey = "Reason"
	EventName     ExtraKey = "EventName"
)
