package screen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"oneline/internal/core/daygate"
	"oneline/internal/core/model"
	"oneline/internal/storage"
	"oneline/internal/ui/preferences"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBlob struct {
	mu       sync.Mutex
	items    map[string][]byte
	writeErr error
	reads    int
}

func (blob *memoryBlob) Read(key string) ([]byte, error) {
	blob.mu.Lock()
	defer blob.mu.Unlock()
	blob.reads++
	data, ok := blob.items[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (blob *memoryBlob) Write(key string, data []byte) error {
	blob.mu.Lock()
	defer blob.mu.Unlock()
	if blob.writeErr != nil {
		return blob.writeErr
	}
	blob.items[key] = append([]byte(nil), data...)
	return nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// uiQueue stands in for fyne.Do so callbacks run on the test goroutine.
type uiQueue chan func()

func (queue uiQueue) Dispatch(run func()) { queue <- run }

func (queue uiQueue) runUntil(t *testing.T, done func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !done() {
		select {
		case run := <-queue:
			run()
		case <-deadline:
			t.Fatal("condition not reached")
		}
	}
}

type fixture struct {
	controller *Controller
	store      *storage.Store
	blob       *memoryBlob
	clock      *clock
	queue      uiQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	window := test.NewTempApp(t).NewWindow("One Line")
	blob := &memoryBlob{items: make(map[string][]byte)}
	store := storage.NewStore(blob, nil)
	now := &clock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	queue := make(uiQueue, 128)
	controller := New(window, store, Config{
		Settings: preferences.DefaultSettings(),
		Now:      now.Now,
		Dispatch: queue.Dispatch,
	})
	t.Cleanup(controller.Close)
	return &fixture{controller: controller, store: store, blob: blob, clock: now, queue: queue}
}

func (f *fixture) drag(points ...fyne.Position) {
	surface := f.controller.board
	surface.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: points[0]}, Button: desktop.MouseButtonPrimary})
	for _, point := range points[1:] {
		surface.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: point}})
	}
}

func (f *fixture) lift(at fyne.Position) {
	f.controller.board.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: at}, Button: desktop.MouseButtonPrimary})
}

func completedSegment(id string, end model.Point) model.LineSegment {
	date, _ := time.Parse(model.DayLayout, id)
	start := model.Point{X: end.X - 650, Y: end.Y}
	return model.LineSegment{
		ID:         id,
		Date:       date,
		Path:       []model.Point{start, end},
		StartPoint: start,
		EndPoint:   end,
		Completed:  true,
	}
}

func TestShow_EmptyStoreDrawsFromDefaultMarkers(t *testing.T) {
	f := newFixture(t)
	var changes []Mode
	f.controller.SetOnChange(func(mode Mode, _ model.Stats) { changes = append(changes, mode) })

	mode := f.controller.Show(context.Background())

	assert.Equal(t, ModeDrawing, mode)
	assert.Equal(t, []Mode{ModeDrawing}, changes)
	assert.Equal(t, messageDrawing, f.controller.message.Text)
	shown := f.controller.Scene()
	require.NotNil(t, shown.Start)
	require.NotNil(t, shown.End)
	assert.Equal(t, model.Point{X: 100, Y: 200}, *shown.Start)
	assert.Equal(t, model.Point{X: 750, Y: 200}, *shown.End)
}

func TestShow_CompletingTheLineLocksTheDay(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	require.Equal(t, ModeDrawing, f.controller.Show(ctx))

	// Act
	f.drag(fyne.NewPos(100, 200), fyne.NewPos(400, 240), fyne.NewPos(745, 202))
	f.queue.runUntil(t, func() bool { return f.controller.Mode() == ModeLocked })

	// Assert
	assert.Equal(t, messageLocked, f.controller.message.Text)
	assert.Equal(t, "1 day drawn", f.controller.subtext.Text)
	assert.Equal(t, 1, f.controller.Stats().TotalDays)
	assert.Nil(t, f.controller.Scene().Start)

	data, err := f.store.Load(ctx)
	require.NoError(t, err)
	segment, ok := data.Segment("2026-10-16")
	require.True(t, ok)
	assert.True(t, segment.Completed)
	assert.Len(t, segment.Path, 3)
	assert.False(t, daygate.CanDrawToday(data.LineSegments, f.clock.Now()))
}

func TestShow_LiftingMidPathKeepsDrawing(t *testing.T) {
	f := newFixture(t)
	f.controller.Show(context.Background())

	f.drag(fyne.NewPos(100, 200), fyne.NewPos(300, 200))
	f.lift(fyne.NewPos(300, 200))
	f.queue.runUntil(t, func() bool { return f.controller.Status() == statusDiscarded })

	assert.Equal(t, ModeDrawing, f.controller.Mode())
	data, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.LineSegments)
}

func TestShow_SaveFailureStaysOnDrawing(t *testing.T) {
	f := newFixture(t)
	f.blob.writeErr = errors.New("disk full")
	f.controller.Show(context.Background())

	f.drag(fyne.NewPos(100, 200), fyne.NewPos(750, 200))
	f.queue.runUntil(t, func() bool { return f.controller.Status() == statusSaveFailed })

	assert.Equal(t, ModeDrawing, f.controller.Mode())
}

func TestShow_AlreadyDrawnTodayIsLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.AppendSegment(ctx, completedSegment("2026-10-15", model.Point{X: 750, Y: 200})))
	require.NoError(t, f.store.AppendSegment(ctx, completedSegment("2026-10-16", model.Point{X: 1400, Y: 200})))

	mode := f.controller.Show(ctx)

	assert.Equal(t, ModeLocked, mode)
	assert.Equal(t, "2 days drawn", f.controller.subtext.Text)
	shown := f.controller.Scene()
	assert.Len(t, shown.Segments, 2)
	assert.Len(t, shown.Junctions, 2)
	assert.Nil(t, shown.End)
}

func TestWatch_DayChangeUnlocks(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.AppendSegment(ctx, completedSegment("2026-10-16", model.Point{X: 750, Y: 200})))
	require.Equal(t, ModeLocked, f.controller.Show(ctx))
	events := make(chan daygate.Event, 1)
	f.controller.Watch(ctx, events)

	// Act
	f.clock.Set(time.Date(2026, 10, 17, 0, 0, 5, 0, time.UTC))
	events <- daygate.Event{Type: daygate.EventDayChanged, Previous: "2026-10-16", Day: "2026-10-17"}
	f.queue.runUntil(t, func() bool { return f.controller.Mode() == ModeDrawing })
	close(events)

	// Assert
	shown := f.controller.Scene()
	require.NotNil(t, shown.Start)
	assert.Equal(t, model.Point{X: 750, Y: 200}, *shown.Start)
	assert.Equal(t, model.Point{X: 1400, Y: 200}, *shown.End)
}

func TestShow_CorruptDataFailsOpen(t *testing.T) {
	f := newFixture(t)
	f.blob.items[storage.DataKey] = []byte("{not json")

	mode := f.controller.Show(context.Background())

	assert.Equal(t, ModeDrawing, mode)
	assert.Equal(t, statusCorrupt, f.controller.Status())
}

func TestShow_ReadsStoreOnce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.AppendSegment(context.Background(), completedSegment("2026-10-15", model.Point{X: 750, Y: 200})))
	f.blob.reads = 0

	f.controller.Show(context.Background())

	assert.Equal(t, 1, f.blob.reads)
}

func TestApplyColorScheme(t *testing.T) {
	f := newFixture(t)
	f.controller.Show(context.Background())

	f.controller.ApplyColorScheme("#EF4444")

	assert.Equal(t, "#EF4444", f.controller.Style().Color)
}

func TestDaysDrawn(t *testing.T) {
	assert.Equal(t, "0 days drawn", DaysDrawn(0))
	assert.Equal(t, "1 day drawn", DaysDrawn(1))
	assert.Equal(t, "12 days drawn", DaysDrawn(12))
}
