// Package export writes the whole line to image and document files.
package export

import (
	"errors"
	"math"

	"oneline/internal/core/model"
	"oneline/internal/core/scene"
)

// ErrEmptyScene is returned when there is nothing to export.
var ErrEmptyScene = errors.New("nothing to export")

const margin = 32.0

// layout maps canvas space onto an output page of Width x Height.
type layout struct {
	bounds scene.Rect
	scale  float64
	Width  float64
	Height float64
}

func fit(built scene.Scene, style scene.Style, maxSide float64) (layout, error) {
	if built.Empty() {
		return layout{}, ErrEmptyScene
	}
	pad := margin + math.Max(style.MarkerRadius, style.LineWidth)
	bounds := built.Bounds().Inset(pad)

	scale := 1.0
	if longest := math.Max(bounds.Width(), bounds.Height()); longest > maxSide {
		scale = maxSide / longest
	}
	return layout{
		bounds: bounds,
		scale:  scale,
		Width:  math.Max(1, math.Ceil(bounds.Width()*scale)),
		Height: math.Max(1, math.Ceil(bounds.Height()*scale)),
	}, nil
}

func (page layout) point(point model.Point) (float64, float64) {
	return (point.X - page.bounds.MinX) * page.scale, (point.Y - page.bounds.MinY) * page.scale
}

func (page layout) length(value float64) float64 {
	return math.Max(value*page.scale, 0.5)
}

// polylines returns the strokes in drawing order: history first, then the
// path in progress.
func polylines(built scene.Scene) []scene.Polyline {
	lines := append([]scene.Polyline(nil), built.Segments...)
	if len(built.Current.Points) > 0 {
		lines = append(lines, built.Current)
	}
	return lines
}
