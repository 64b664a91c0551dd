package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"oneline/internal/core/model"

	"go.uber.org/zap"
)

// Saver persists a finished segment.
type Saver interface {
	AppendSegment(ctx context.Context, segment model.LineSegment) error
}

// Config contains the markers and clock for one drawing session.
type Config struct {
	Start  model.Point
	End    model.Point
	Radius float64
	Now    func() time.Time
	Logger *zap.Logger
}

// Tracker is the state machine turning touches into the day's segment.
type Tracker struct {
	mu         sync.Mutex
	config     Config
	saver      Saver
	state      State
	path       []model.Point
	saving     bool
	finished   bool
	events     []chan Event
	onComplete func(model.LineSegment)
}

// New creates a Tracker for the given markers.
func New(config Config, saver Saver) *Tracker {
	if config.Radius <= 0 {
		config.Radius = CaptureRadius
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Tracker{
		config: config,
		saver:  saver,
		state:  StateIdle,
	}
}

// SetOnComplete sets a callback fired after a segment has been saved.
func (tracker *Tracker) SetOnComplete(handler func(model.LineSegment)) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.onComplete = handler
}

// Subscribe registers a new observer channel.
func (tracker *Tracker) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	tracker.mu.Lock()
	tracker.events = append(tracker.events, ch)
	tracker.mu.Unlock()
	return ch
}

// Close closes observer channels.
func (tracker *Tracker) Close() {
	tracker.mu.Lock()
	events := tracker.events
	tracker.events = nil
	tracker.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Markers returns the start and end marker positions.
func (tracker *Tracker) Markers() (start, end model.Point) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.config.Start, tracker.config.End
}

// Rearm moves the markers and makes a finished tracker accept touches again.
func (tracker *Tracker) Rearm(start, end model.Point) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.config.Start = start
	tracker.config.End = end
	tracker.state = StateIdle
	tracker.path = nil
	tracker.finished = false
}

// State returns the current state.
func (tracker *Tracker) State() State {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.state
}

// Finished reports whether today's segment has been saved.
func (tracker *Tracker) Finished() bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.finished
}

// Path returns a copy of the in-progress path.
func (tracker *Tracker) Path() []model.Point {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return append([]model.Point(nil), tracker.path...)
}

// Down starts drawing when the touch lands on the start marker.
func (tracker *Tracker) Down(x, y float64) bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if tracker.state != StateIdle || tracker.saving || tracker.finished {
		return false
	}
	now := tracker.config.Now()
	point := model.NewPoint(x, y, now)
	if point.Distance(tracker.config.Start) > tracker.config.Radius {
		return false
	}

	tracker.state = StateDrawing
	tracker.path = []model.Point{point}
	tracker.emitLocked(Event{Type: EventStarted, State: StateDrawing, Points: 1, At: now})
	return true
}

// Move appends a point and finalizes the segment once the end marker is
// reached. The returned error is the save failure, if any.
func (tracker *Tracker) Move(ctx context.Context, x, y float64) error {
	tracker.mu.Lock()
	if tracker.state != StateDrawing {
		tracker.mu.Unlock()
		return nil
	}
	now := tracker.config.Now()
	point := model.NewPoint(x, y, now)
	tracker.path = append(tracker.path, point)
	tracker.emitLocked(Event{Type: EventPointAdded, State: StateDrawing, Points: len(tracker.path), At: now})

	if point.Distance(tracker.config.End) > tracker.config.Radius {
		tracker.mu.Unlock()
		return nil
	}

	segment := buildSegment(tracker.path, now)
	tracker.state = StateIdle
	tracker.saving = true
	tracker.mu.Unlock()

	err := tracker.saver.AppendSegment(ctx, segment)

	tracker.mu.Lock()
	tracker.saving = false
	if err != nil {
		tracker.path = nil
		tracker.emitLocked(Event{Type: EventSaveFailed, State: StateIdle, Err: err, At: tracker.config.Now()})
		tracker.mu.Unlock()
		tracker.config.Logger.Error("save segment", zap.String("day", segment.ID), zap.Error(err))
		return fmt.Errorf("save segment %s: %w", segment.ID, err)
	}
	tracker.finished = true
	tracker.emitLocked(Event{Type: EventCompleted, State: StateIdle, Points: len(segment.Path), Segment: &segment, At: now})
	handler := tracker.onComplete
	tracker.mu.Unlock()

	tracker.config.Logger.Info("segment completed",
		zap.String("day", segment.ID),
		zap.Int("points", len(segment.Path)),
		zap.Float64("duration", segment.Duration),
	)
	if handler != nil {
		handler(segment)
	}
	return nil
}

// Up ends the gesture. An unfinished path is discarded.
func (tracker *Tracker) Up() {
	tracker.discard()
}

// Cancel aborts the gesture.
func (tracker *Tracker) Cancel() {
	tracker.discard()
}

func (tracker *Tracker) discard() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if tracker.state != StateDrawing {
		return
	}
	points := len(tracker.path)
	tracker.state = StateIdle
	tracker.path = nil
	tracker.emitLocked(Event{Type: EventDiscarded, State: StateIdle, Points: points, At: tracker.config.Now()})
}

func buildSegment(path []model.Point, now time.Time) model.LineSegment {
	recorded := append([]model.Point(nil), path...)
	first := recorded[0]
	last := recorded[len(recorded)-1]
	duration := float64(last.Timestamp-first.Timestamp) / 1000
	if duration < 0 {
		duration = 0
	}
	return model.LineSegment{
		ID:         model.DayID(now),
		Date:       now,
		Path:       recorded,
		StartPoint: first,
		EndPoint:   last,
		Duration:   duration,
		Completed:  true,
	}
}

func (tracker *Tracker) emitLocked(event Event) {
	for _, ch := range tracker.events {
		select {
		case ch <- event:
		default:
		}
	}
}
