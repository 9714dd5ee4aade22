package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names the mutation that produced an event.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// ExpenseEvent is the lightweight message published after every successful
// mutation. Consumers re-derive whatever they need from the database, so
// only the id travels.
type ExpenseEvent struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent stamps an event for the given mutation.
func NewExpenseEvent(t EventType, id int64) *ExpenseEvent {
	return &ExpenseEvent{Type: t, ID: id, Timestamp: time.Now()}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Type {
	case EventCreated, EventUpdated, EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return &ev, nil
}
