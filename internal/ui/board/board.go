// Package board is the Fyne widget that shows the line and turns pointer
// input into drawing, pan and zoom.
package board

import (
	"context"
	"image/color"
	"math"
	"sync"

	"oneline/internal/core/gesture"
	"oneline/internal/core/scene"
	"oneline/internal/core/viewport"
	"oneline/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// wheelZoomStep is the scroll distance that doubles the zoom.
const wheelZoomStep = 240.0

// Config contains the board dependencies.
type Config struct {
	Style  scene.Style
	View   *viewport.Viewport
	Frames animation.Config
	Logger *zap.Logger
}

// Board renders a Scene and routes input to a gesture.Router.
type Board struct {
	widget.BaseWidget

	mu      sync.RWMutex
	source  func() scene.Scene
	style   scene.Style
	palette palette
	panning bool
	// revision changes whenever the completed history or style may have.
	revision uint64

	view   *viewport.Viewport
	router *gesture.Router
	frames *animation.Engine
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ fyne.Scrollable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ mobile.Touchable = (*Board)(nil)

// New creates a read-only board. Call SetDrawer to accept drawing input.
func New(config Config) *Board {
	if config.View == nil {
		config.View = viewport.New(viewport.DefaultEase)
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	board := &Board{
		source: func() scene.Scene { return scene.Scene{} },
		view:   config.View,
		router: gesture.NewRouter(nil, config.View),
		ctx:    ctx,
		cancel: cancel,
		logger: config.Logger.Named("board"),
	}
	board.frames = animation.New(config.Frames, config.View, board.Refresh)
	board.setStyleLocked(config.Style)
	board.ExtendBaseWidget(board)
	return board
}

// SetSource replaces the function queried for the scene on every refresh.
func (board *Board) SetSource(source func() scene.Scene) {
	board.mu.Lock()
	board.source = source
	board.revision++
	board.mu.Unlock()
	board.Refresh()
}

// Scene returns what the board is currently showing.
func (board *Board) Scene() scene.Scene {
	board.mu.RLock()
	source := board.source
	board.mu.RUnlock()
	return source()
}

// SetStyle changes colours and widths.
func (board *Board) SetStyle(style scene.Style) {
	board.mu.Lock()
	board.setStyleLocked(style)
	board.mu.Unlock()
	board.Refresh()
}

// SetDrawer attaches the drawing target. A nil drawer makes the board
// read-only while pan and zoom keep working.
func (board *Board) SetDrawer(drawer gesture.Drawer) {
	board.router.Cancel()
	board.router.SetDrawer(drawer)
}

// View returns the board viewport.
func (board *Board) View() *viewport.Viewport {
	return board.view
}

// ResetView eases back to the identity transform.
func (board *Board) ResetView() {
	board.view.Reset()
	board.frames.Kick(board.ctx)
}

// Stop ends background animation.
func (board *Board) Stop() {
	board.frames.Stop()
	board.cancel()
}

// MouseDown starts drawing on the primary button and panning on the secondary.
func (board *Board) MouseDown(event *desktop.MouseEvent) {
	switch event.Button {
	case desktop.MouseButtonPrimary:
		board.router.Down(0, float64(event.Position.X), float64(event.Position.Y))
		board.Refresh()
	case desktop.MouseButtonSecondary:
		board.mu.Lock()
		board.panning = true
		board.mu.Unlock()
	}
}

// MouseUp ends the current gesture.
func (board *Board) MouseUp(event *desktop.MouseEvent) {
	switch event.Button {
	case desktop.MouseButtonPrimary:
		board.release()
	case desktop.MouseButtonSecondary:
		board.mu.Lock()
		board.panning = false
		board.mu.Unlock()
	}
}

// TouchDown starts a touch gesture.
func (board *Board) TouchDown(event *mobile.TouchEvent) {
	board.router.Down(0, float64(event.Position.X), float64(event.Position.Y))
	board.Refresh()
}

// TouchUp ends a touch gesture.
func (board *Board) TouchUp(*mobile.TouchEvent) {
	board.release()
}

// TouchCancel aborts a touch gesture and discards the path in progress.
func (board *Board) TouchCancel(*mobile.TouchEvent) {
	board.router.Cancel()
	board.Refresh()
}

// Dragged extends the path. Drags that did not start on the start marker,
// and secondary-button drags, pan the view.
func (board *Board) Dragged(event *fyne.DragEvent) {
	board.mu.RLock()
	panning := board.panning
	board.mu.RUnlock()

	if panning || !board.router.Drawing() {
		board.view.PanBy(float64(event.Dragged.DX), float64(event.Dragged.DY))
		board.frames.Kick(board.ctx)
		return
	}
	if err := board.router.Move(board.ctx, 0, float64(event.Position.X), float64(event.Position.Y)); err != nil {
		board.logger.Debug("move rejected", zap.Error(err))
	}
	board.Refresh()
}

// DragEnd releases the pointer if no button-up was delivered.
func (board *Board) DragEnd() {
	board.mu.RLock()
	panning := board.panning
	board.mu.RUnlock()
	if !panning {
		board.release()
	}
}

// Scrolled zooms about the cursor.
func (board *Board) Scrolled(event *fyne.ScrollEvent) {
	factor := math.Pow(2, float64(event.Scrolled.DY)/wheelZoomStep)
	board.view.ZoomBy(factor, float64(event.Position.X), float64(event.Position.Y))
	board.frames.Kick(board.ctx)
}

func (board *Board) release() {
	board.router.Up(0)
	board.Refresh()
}

type frameState struct {
	scene     scene.Scene
	style     scene.Style
	colors    palette
	transform viewport.Transform
	revision  uint64
}

func (board *Board) snapshot() frameState {
	board.mu.RLock()
	source := board.source
	current := frameState{
		style:    board.style,
		colors:   board.palette,
		revision: board.revision,
	}
	board.mu.RUnlock()
	current.scene = source()
	current.transform = board.view.Current()
	return current
}

func (board *Board) setStyleLocked(style scene.Style) {
	defaults := scene.DefaultStyle()
	if style.LineWidth <= 0 {
		style.LineWidth = defaults.LineWidth
	}
	if style.MarkerRadius <= 0 {
		style.MarkerRadius = defaults.MarkerRadius
	}
	if style.JunctionRadius <= 0 {
		style.JunctionRadius = defaults.JunctionRadius
	}
	board.style = style
	board.palette = newPalette(style, defaults, board.logger)
	board.revision++
}

type palette struct {
	line       color.Color
	background color.Color
}

func newPalette(style, defaults scene.Style, logger *zap.Logger) palette {
	line, err := scene.ParseHex(style.Color)
	if err != nil {
		logger.Warn("invalid line colour, using default", zap.String("color", style.Color), zap.Error(err))
		line, _ = scene.ParseHex(defaults.Color)
	}
	background, err := scene.ParseHex(style.Background)
	if err != nil {
		background, _ = scene.ParseHex(defaults.Background)
	}
	return palette{line: line, background: background}
}
