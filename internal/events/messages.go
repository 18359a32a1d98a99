package events

import (
	"encoding/json"
	"time"
)

// Mutation actions carried on the wire.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entity names carried on the wire.
const (
	EntityTransaction = "transaction"
	EntityGoal        = "savings_goal"
	EntityReminder    = "reminder"
)

// LedgerEvent is a lightweight change notification. It carries only the
// entity identity; consumers that need the full record fetch it themselves.
type LedgerEvent struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(entity, action, id string) *LedgerEvent {
	return &LedgerEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
