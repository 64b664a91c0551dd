package board

import (
	"image/color"

	"oneline/internal/core/model"
	"oneline/internal/core/scene"
	"oneline/internal/core/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// CreateRenderer implements fyne.Widget.
func (board *Board) CreateRenderer() fyne.WidgetRenderer {
	renderer := &boardRenderer{
		board:      board,
		background: canvas.NewRectangle(color.White),
	}
	renderer.rebuild()
	return renderer
}

type boardRenderer struct {
	board      *Board
	background *canvas.Rectangle
	objects    []fyne.CanvasObject

	// history holds completed segments and junctions for historyKey.
	history    []fyne.CanvasObject
	historyKey historyKey
	hasHistory bool
}

type historyKey struct {
	revision  uint64
	transform viewport.Transform
}

func (renderer *boardRenderer) Layout(size fyne.Size) {
	renderer.background.Resize(size)
}

func (renderer *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 320)
}

func (renderer *boardRenderer) Refresh() {
	renderer.rebuild()
	canvas.Refresh(renderer.board)
}

func (renderer *boardRenderer) Objects() []fyne.CanvasObject {
	return renderer.objects
}

func (renderer *boardRenderer) Destroy() {
	renderer.board.frames.Stop()
}

// rebuild regenerates canvas objects from the current scene and transform.
// Completed history is reused until the source, style or transform changes.
func (renderer *boardRenderer) rebuild() {
	current := renderer.board.snapshot()
	built, style, colors, transform := current.scene, current.style, current.colors, current.transform
	renderer.background.FillColor = colors.background

	width := float32(style.LineWidth * transform.Scale)
	key := historyKey{revision: current.revision, transform: transform}
	if !renderer.hasHistory || renderer.historyKey != key {
		var history []fyne.CanvasObject
		for _, line := range built.Segments {
			history = appendPolyline(history, line, transform, colors.line, width)
		}
		if style.ShowJunctions {
			for _, junction := range built.Junctions {
				history = append(history, dot(junction, transform, style.JunctionRadius, colors.line, true))
			}
		}
		renderer.history = history
		renderer.historyKey = key
		renderer.hasHistory = true
	}

	objects := make([]fyne.CanvasObject, 0, len(renderer.history)+len(built.Current.Points)+3)
	objects = append(objects, renderer.background)
	objects = append(objects, renderer.history...)
	objects = appendPolyline(objects, built.Current, transform, colors.line, width)
	if built.Start != nil {
		objects = append(objects, dot(*built.Start, transform, style.MarkerRadius, colors.line, true))
	}
	if built.End != nil {
		objects = append(objects, dot(*built.End, transform, style.MarkerRadius, colors.line, false))
	}
	renderer.objects = objects
}

func appendPolyline(objects []fyne.CanvasObject, line scene.Polyline, transform viewport.Transform, stroke color.Color, width float32) []fyne.CanvasObject {
	for i := 1; i < len(line.Points); i++ {
		x1, y1 := transform.ToScreen(line.Points[i-1].X, line.Points[i-1].Y)
		x2, y2 := transform.ToScreen(line.Points[i].X, line.Points[i].Y)
		segment := canvas.NewLine(stroke)
		segment.StrokeWidth = width
		segment.Position1 = fyne.NewPos(float32(x1), float32(y1))
		segment.Position2 = fyne.NewPos(float32(x2), float32(y2))
		objects = append(objects, segment)
	}
	return objects
}

// dot draws a marker that keeps its screen size regardless of zoom.
func dot(center model.Point, transform viewport.Transform, radius float64, fill color.Color, filled bool) *canvas.Circle {
	x, y := transform.ToScreen(center.X, center.Y)
	circle := canvas.NewCircle(color.Transparent)
	if filled {
		circle.FillColor = fill
	} else {
		circle.StrokeColor = fill
		circle.StrokeWidth = 3
	}
	r := float32(radius)
	circle.Position1 = fyne.NewPos(float32(x)-r, float32(y)-r)
	circle.Position2 = fyne.NewPos(float32(x)+r, float32(y)+r)
	return circle
}
