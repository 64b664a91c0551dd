package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"oneline/internal/core/daygate"
	"oneline/internal/core/model"
	"oneline/internal/core/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySaver struct {
	data model.AppData
	err  error
}

func (saver *memorySaver) AppendSegment(_ context.Context, segment model.LineSegment) error {
	if saver.err != nil {
		return saver.err
	}
	saver.data.PutSegment(segment)
	return nil
}

// steppingClock advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start.Add(-step)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

var day = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newTracker(saver tracker.Saver) *tracker.Tracker {
	start, end := tracker.PlaceMarkers(nil)
	return tracker.New(tracker.Config{
		Start: start,
		End:   end,
		Now:   steppingClock(day, 250*time.Millisecond),
	}, saver)
}

func TestPlaceMarkers_Default(t *testing.T) {
	start, end := tracker.PlaceMarkers(nil)

	assert.Equal(t, model.Point{X: 100, Y: 200}, start)
	assert.Equal(t, model.Point{X: 750, Y: 200}, end)
}

func TestPlaceMarkers_ContinuesFromLastCompleted(t *testing.T) {
	segments := []model.LineSegment{
		{ID: "2026-10-14", Completed: true, EndPoint: model.Point{X: 10, Y: 10, Timestamp: 5}},
		{ID: "2026-10-15", Completed: true, EndPoint: model.Point{X: 400, Y: 200, Timestamp: 9}},
		{ID: "2026-10-16", Completed: false, EndPoint: model.Point{X: 999, Y: 999}},
	}

	start, end := tracker.PlaceMarkers(segments)

	assert.Equal(t, model.Point{X: 400, Y: 200}, start)
	assert.Equal(t, model.Point{X: 1050, Y: 200}, end)
}

func TestDown_OutsideRadiusStaysIdle(t *testing.T) {
	// Arrange
	saver := &memorySaver{data: model.DefaultAppData()}
	tr := newTracker(saver)

	// Act
	started := tr.Down(140, 200)
	require.NoError(t, tr.Move(context.Background(), 200, 200))

	// Assert
	assert.False(t, started)
	assert.Equal(t, tracker.StateIdle, tr.State())
	assert.Empty(t, tr.Path())
}

func TestDown_OnRadiusBoundaryStarts(t *testing.T) {
	tr := newTracker(&memorySaver{data: model.DefaultAppData()})

	assert.True(t, tr.Down(130, 200))
	assert.Equal(t, tracker.StateDrawing, tr.State())
	assert.Len(t, tr.Path(), 1)
}

func TestMove_ReachingEndCompletesAndPersists(t *testing.T) {
	// Arrange
	saver := &memorySaver{data: model.DefaultAppData()}
	tr := newTracker(saver)
	events := tr.Subscribe(16)
	var completed model.LineSegment
	tr.SetOnComplete(func(segment model.LineSegment) { completed = segment })

	// Act
	require.True(t, tr.Down(100, 200))
	require.NoError(t, tr.Move(context.Background(), 400, 210))
	require.NoError(t, tr.Move(context.Background(), 730, 205))

	// Assert
	assert.Equal(t, tracker.StateIdle, tr.State())
	assert.True(t, tr.Finished())
	require.Len(t, saver.data.LineSegments, 1)
	segment := saver.data.LineSegments[0]
	assert.Equal(t, "2026-10-16", segment.ID)
	assert.True(t, segment.Completed)
	assert.Len(t, segment.Path, 3)
	assert.Equal(t, segment.Path[0], segment.StartPoint)
	assert.Equal(t, segment.Path[2], segment.EndPoint)
	assert.InDelta(t, 0.5, segment.Duration, 1e-9)
	assert.Equal(t, segment.ID, completed.ID)
	assert.False(t, daygate.CanDraw(saver.data.LineSegments, "2026-10-16"))

	var types []tracker.EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	assert.Equal(t, []tracker.EventType{
		tracker.EventStarted,
		tracker.EventPointAdded,
		tracker.EventPointAdded,
		tracker.EventCompleted,
	}, types)
}

func TestFinishedTracker_IgnoresTouchesUntilRearmed(t *testing.T) {
	saver := &memorySaver{data: model.DefaultAppData()}
	tr := newTracker(saver)
	require.True(t, tr.Down(100, 200))
	require.NoError(t, tr.Move(context.Background(), 750, 200))

	assert.False(t, tr.Down(100, 200))

	start, end := tracker.PlaceMarkers(saver.data.LineSegments)
	tr.Rearm(start, end)
	assert.True(t, tr.Down(750, 200))
}

func TestUp_MidPathDiscards(t *testing.T) {
	// Arrange
	saver := &memorySaver{data: model.DefaultAppData()}
	tr := newTracker(saver)
	events := tr.Subscribe(16)

	// Act
	require.True(t, tr.Down(100, 200))
	require.NoError(t, tr.Move(context.Background(), 300, 200))
	tr.Up()

	// Assert
	assert.Equal(t, tracker.StateIdle, tr.State())
	assert.Empty(t, tr.Path())
	assert.Empty(t, saver.data.LineSegments)
	assert.True(t, daygate.CanDraw(saver.data.LineSegments, "2026-10-16"))

	var last tracker.Event
	for len(events) > 0 {
		last = <-events
	}
	assert.Equal(t, tracker.EventDiscarded, last.Type)
	assert.Equal(t, 2, last.Points)
}

func TestMove_SaveFailureDiscardsAndAllowsRetry(t *testing.T) {
	// Arrange
	saver := &memorySaver{data: model.DefaultAppData(), err: errors.New("write failed")}
	tr := newTracker(saver)

	// Act
	require.True(t, tr.Down(100, 200))
	err := tr.Move(context.Background(), 750, 200)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, saver.err)
	assert.Equal(t, tracker.StateIdle, tr.State())
	assert.Empty(t, tr.Path())
	assert.False(t, tr.Finished())

	saver.err = nil
	assert.True(t, tr.Down(100, 200))
}

func TestDuration_NeverNegative(t *testing.T) {
	saver := &memorySaver{data: model.DefaultAppData()}
	times := []time.Time{day.Add(time.Second), day}
	call := 0
	start, end := tracker.PlaceMarkers(nil)
	tr := tracker.New(tracker.Config{Start: start, End: end, Now: func() time.Time {
		now := times[call%len(times)]
		call++
		return now
	}}, saver)

	require.True(t, tr.Down(100, 200))
	require.NoError(t, tr.Move(context.Background(), 750, 200))

	require.Len(t, saver.data.LineSegments, 1)
	assert.Zero(t, saver.data.LineSegments[0].Duration)
}
