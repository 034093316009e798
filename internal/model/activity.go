package model

import "time"

// ActivityAction names what happened to an entity.
type ActivityAction string

const (
	ActionCreated  ActivityAction = "created"
	ActionUpdated  ActivityAction = "updated"
	ActionDeleted  ActivityAction = "deleted"
	ActionCheckIn  ActivityAction = "check_in"
	ActionCheckOut ActivityAction = "check_out"
	ActionClockIn  ActivityAction = "clock_in"
	ActionClockOut ActivityAction = "clock_out"
	ActionInvoiced ActivityAction = "invoiced"
	ActionMigrated ActivityAction = "schedule_migrated"
)

// ActivityEntry is one line of the history log. It is also the payload
// broadcast to connected admin clients.
type ActivityEntry struct {
	ID         string         `json:"id"`
	ActorID    int            `json:"actor_id"`
	Action     ActivityAction `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   int            `json:"entity_id"`
	Summary    string         `json:"summary"`
	OccurredAt time.Time      `json:"occurred_at"`
}
