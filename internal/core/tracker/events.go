package tracker

import (
	"time"

	"oneline/internal/core/model"
)

// State represents the current Tracker mode.
type State string

const (
	StateIdle    State = "idle"
	StateDrawing State = "drawing"
)

// EventType defines the type of Tracker event.
type EventType string

const (
	EventStarted    EventType = "started"
	EventPointAdded EventType = "point_added"
	EventCompleted  EventType = "completed"
	EventDiscarded  EventType = "discarded"
	EventSaveFailed EventType = "save_failed"
)

// Event represents a Tracker update for observers.
type Event struct {
	Type    EventType
	State   State
	Points  int
	Segment *model.LineSegment
	Err     error
	At      time.Time
}
