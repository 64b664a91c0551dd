// Package screen owns the main window content and switches it between the
// drawing view and the locked view.
package screen

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"oneline/internal/core/daygate"
	"oneline/internal/core/model"
	"oneline/internal/core/scene"
	"oneline/internal/core/tracker"
	"oneline/internal/storage"
	"oneline/internal/ui/board"
	"oneline/internal/ui/preferences"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// Mode is the view currently shown.
type Mode string

const (
	ModeDrawing Mode = "drawing"
	ModeLocked  Mode = "locked"
)

const (
	messageDrawing = "Draw today's line"
	hintDrawing    = "Start on the filled dot and finish in the ring"
	messageLocked  = "Come back tomorrow"

	statusSaveFailed = "Couldn't save today's line. Try again from the dot."
	statusDiscarded  = "The line was lifted before the ring. Start again from the dot."
	statusCorrupt    = "Saved drawing could not be read. It will be backed up on the next save."
)

// Store is the persistence the controller needs.
type Store interface {
	daygate.Loader
	tracker.Saver
}

// Config contains controller dependencies.
type Config struct {
	Settings preferences.Settings
	Now      func() time.Time
	// Dispatch runs a callback on the UI goroutine. Defaults to fyne.Do.
	Dispatch func(func())
	Logger   *zap.Logger
}

// Controller chooses between the drawing and locked views.
type Controller struct {
	mu       sync.Mutex
	window   fyne.Window
	store    Store
	config   Config
	logger   *zap.Logger
	board    *board.Board
	message  *canvas.Text
	subtext  *canvas.Text
	status   *widget.Label
	mode     Mode
	data     model.AppData
	active   *tracker.Tracker
	onChange func(Mode, model.Stats)
}

// New builds the window content. Call Show to populate it.
func New(window fyne.Window, store Store, config Config) *Controller {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Dispatch == nil {
		config.Dispatch = fyne.Do
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	logger := config.Logger.Named("screen")

	data := model.DefaultAppData()
	surface := board.New(board.Config{
		Style:  config.Settings.Style(data.ColorScheme),
		Logger: config.Logger,
	})
	surface.View().SetEase(config.Settings.Ease)

	message := canvas.NewText("", color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 255})
	message.Alignment = fyne.TextAlignCenter
	message.TextStyle = fyne.TextStyle{Bold: true}
	message.TextSize = 22

	subtext := canvas.NewText("", color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 255})
	subtext.Alignment = fyne.TextAlignCenter
	subtext.TextSize = 14

	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	resetButton := widget.NewButton("Reset view", surface.ResetView)
	header := container.NewVBox(message, subtext)
	footer := container.NewBorder(nil, nil, nil, resetButton, status)
	window.SetContent(container.NewBorder(header, footer, nil, nil, surface))

	return &Controller{
		window:  window,
		store:   store,
		config:  config,
		logger:  logger,
		board:   surface,
		message: message,
		subtext: subtext,
		status:  status,
		data:    data,
	}
}

// SetOnChange sets a callback fired after every Show.
func (controller *Controller) SetOnChange(handler func(Mode, model.Stats)) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.onChange = handler
}

// Show loads the stored line, asks the day gate and builds the matching
// view. Must run on the UI goroutine.
func (controller *Controller) Show(ctx context.Context) Mode {
	now := controller.config.Now()
	data, err := controller.store.Load(ctx)
	canDraw := daygate.Decide(data, err, now, controller.logger)
	statusText := ""
	if errors.Is(err, storage.ErrCorrupt) {
		statusText = statusCorrupt
	}

	controller.mu.Lock()
	controller.retireTrackerLocked()
	controller.data = data
	mode := ModeLocked
	if canDraw {
		mode = ModeDrawing
	}
	controller.mode = mode
	settings := controller.config.Settings
	handler := controller.onChange
	controller.mu.Unlock()

	controller.board.SetStyle(settings.Style(data.ColorScheme))
	if mode == ModeDrawing {
		controller.showDrawing(ctx, data)
	} else {
		controller.showLocked(data)
	}
	controller.setStatus(statusText)

	controller.logger.Info("screen shown",
		zap.String("mode", string(mode)),
		zap.String("day", model.DayID(now)),
		zap.Int("total_days", data.Stats.TotalDays),
	)
	if handler != nil {
		handler(mode, data.Stats)
	}
	return mode
}

// Watch re-runs Show when the calendar day changes while today is locked.
func (controller *Controller) Watch(ctx context.Context, events <-chan daygate.Event) {
	go func() {
		for event := range events {
			if event.Type != daygate.EventDayChanged {
				continue
			}
			controller.logger.Info("day changed", zap.String("previous", event.Previous), zap.String("day", event.Day))
			controller.config.Dispatch(func() {
				if controller.Mode() == ModeLocked {
					controller.Show(ctx)
				}
			})
		}
	}()
}

// Mode returns the current view.
func (controller *Controller) Mode() Mode {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.mode
}

// Stats returns the stats of the last loaded data.
func (controller *Controller) Stats() model.Stats {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.data.Stats
}

// Scene returns what the board currently shows.
func (controller *Controller) Scene() scene.Scene {
	return controller.board.Scene()
}

// ExportScene returns every completed segment without markers.
func (controller *Controller) ExportScene() scene.Scene {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return scene.Build(controller.data.CompletedSegments(), nil, nil, nil)
}

// Style returns the style the board is drawn with.
func (controller *Controller) Style() scene.Style {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.config.Settings.Style(controller.data.ColorScheme)
}

// ApplySettings restyles the board.
func (controller *Controller) ApplySettings(settings preferences.Settings) {
	controller.mu.Lock()
	controller.config.Settings = settings
	style := settings.Style(controller.data.ColorScheme)
	controller.mu.Unlock()

	controller.board.View().SetEase(settings.Ease)
	controller.board.SetStyle(style)
}

// ApplyColorScheme restyles the board after the stored colour changed.
func (controller *Controller) ApplyColorScheme(hex string) {
	controller.mu.Lock()
	controller.data.ColorScheme = hex
	style := controller.config.Settings.Style(hex)
	controller.mu.Unlock()

	controller.board.SetStyle(style)
}

// Status returns the status line text.
func (controller *Controller) Status() string {
	return controller.status.Text
}

// Close stops background work.
func (controller *Controller) Close() {
	controller.mu.Lock()
	controller.retireTrackerLocked()
	controller.mu.Unlock()
	controller.board.Stop()
}

func (controller *Controller) showDrawing(ctx context.Context, data model.AppData) {
	start, end := tracker.PlaceMarkers(data.LineSegments)
	active := tracker.New(tracker.Config{
		Start:  start,
		End:    end,
		Now:    controller.config.Now,
		Logger: controller.config.Logger,
	}, controller.store)
	active.SetOnComplete(func(model.LineSegment) {
		controller.config.Dispatch(func() {
			if controller.isActive(active) {
				controller.Show(ctx)
			}
		})
	})
	events := active.Subscribe(64)

	controller.mu.Lock()
	controller.active = active
	controller.mu.Unlock()
	go controller.consume(active, events)

	segments := data.LineSegments
	controller.board.SetDrawer(active)
	controller.board.SetSource(func() scene.Scene {
		return scene.Build(segments, active.Path(), &start, &end)
	})
	controller.setText(messageDrawing, hintDrawing)
}

func (controller *Controller) showLocked(data model.AppData) {
	completed := data.CompletedSegments()
	controller.board.SetDrawer(nil)
	controller.board.SetSource(func() scene.Scene {
		return scene.Build(completed, nil, nil, nil)
	})
	controller.setText(messageLocked, DaysDrawn(len(completed)))
}

// consume turns tracker events into status messages. Completion is handled
// by the tracker callback since point events may crowd the channel.
func (controller *Controller) consume(source *tracker.Tracker, events <-chan tracker.Event) {
	for event := range events {
		switch event.Type {
		case tracker.EventSaveFailed:
			controller.config.Dispatch(func() {
				if controller.isActive(source) {
					controller.setStatus(statusSaveFailed)
				}
			})
		case tracker.EventDiscarded:
			controller.config.Dispatch(func() {
				if controller.isActive(source) {
					controller.setStatus(statusDiscarded)
				}
			})
		case tracker.EventStarted:
			controller.config.Dispatch(func() {
				if controller.isActive(source) {
					controller.setStatus("")
				}
			})
		}
	}
}

func (controller *Controller) isActive(source *tracker.Tracker) bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.active == source
}

func (controller *Controller) retireTrackerLocked() {
	if controller.active != nil {
		controller.active.Close()
		controller.active = nil
	}
}

func (controller *Controller) setText(message, subtext string) {
	controller.message.Text = message
	controller.message.Refresh()
	controller.subtext.Text = subtext
	controller.subtext.Refresh()
}

func (controller *Controller) setStatus(text string) {
	controller.status.SetText(text)
}

// DaysDrawn formats the locked-view counter.
func DaysDrawn(count int) string {
	if count == 1 {
		return "1 day drawn"
	}
	return fmt.Sprintf("%d days drawn", count)
}
