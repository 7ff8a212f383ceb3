package domain

import "time"

// Activity actions recorded by the task repository.
const (
	ActionTaskCreated = "task_created"
	ActionTaskUpdated = "task_updated"
	ActionTaskDeleted = "task_deleted"
)

// ActivityLogEntry is an append-only audit record written as a side effect
// of task mutations. Details carries a JSON-encoded payload.
type ActivityLogEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
