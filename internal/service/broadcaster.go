package service

// Outbound event names pushed to clients.
const (
	EventGameCreated = "gameCreated"
	EventGameJoined  = "gameJoined"
	EventGameUpdate  = "gameUpdate"
	EventError       = "error"
)

// Broadcaster delivers an event to one connection. Implemented by the
// WebSocket hub (interface lives here to avoid an import cycle). Delivery
// is targeted per connection rather than per session so per-player payloads
// can diverge later.
type Broadcaster interface {
	Send(connID string, event string, payload interface{})
}

// StatusNotifier is told when a countdown completes and the match is live.
// Implemented by the match store adapter; must not block the caller's tick.
type StatusNotifier interface {
	MatchStarted(code string)
}
