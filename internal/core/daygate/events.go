package daygate

import "time"

// EventType defines the type of Watcher event.
type EventType string

const (
	EventDayChanged EventType = "day_changed"
)

// Event is delivered to Watcher subscribers.
type Event struct {
	Type     EventType
	Previous string
	Day      string
	At       time.Time
}
