package websocket

import "github.com/stemsi/daycare-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing   Action = "ping"
	ActionFilter Action = "filter"
)

// Request is any message sent by the client.
type Request struct {
	Action Action `json:"action"`
	// Entities restricts the feed for ActionFilter; empty means everything.
	Entities []string `json:"entities,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady  Event = "ready"
	EventChange Event = "change"
	EventError  Event = "error"
	EventPong   Event = "pong"
)

// ReadyResponse is sent once the change subscription is live.
type ReadyResponse struct {
	Event    Event    `json:"event"`
	Entities []string `json:"entities"`
}

// ChangeResponse carries one history entry as it happens.
type ChangeResponse struct {
	Event Event               `json:"event"`
	Data  model.ActivityEntry `json:"data"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
