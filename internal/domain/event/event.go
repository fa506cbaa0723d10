// Package event defines the change notifications emitted after CRM writes.
package event

import (
	"encoding/json"
	"time"
)

// Action is the kind of write that produced a change.
type Action string

const (
	ActionCreated    Action = "created"
	ActionUpdated    Action = "updated"
	ActionDeleted    Action = "deleted"
	ActionTransition Action = "transitioned"
)

// Entity names, also used as the second segment of the message subject.
const (
	EntityCompany  = "company"
	EntityContact  = "contact"
	EntityDeal     = "deal"
	EntityTask     = "task"
	EntityActivity = "activity"
)

// Change is published after a successful write. It carries the row as it was
// returned by storage, or nothing for deletes.
type Change struct {
	Entity    string          `json:"entity"`
	Action    Action          `json:"action"`
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Subject returns the message subject for the change, e.g. "crm.deal.created".
func (c Change) Subject() string {
	return "crm." + c.Entity + "." + string(c.Action)
}
