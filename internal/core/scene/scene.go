// Package scene turns stored segments into a renderer-independent list of
// polylines and markers. The board widget and the file exporters all draw
// from a Scene.
package scene

import (
	"math"

	"oneline/internal/core/model"
)

// Polyline is an ordered run of canvas points joined by straight lines.
type Polyline struct {
	ID     string
	Points []model.Point
}

// Scene is everything a renderer needs for one frame.
type Scene struct {
	Segments  []Polyline
	Current   Polyline
	Start     *model.Point
	End       *model.Point
	Junctions []model.Point
}

// Rect is an axis-aligned bounding box in canvas space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (rect Rect) Width() float64 { return rect.MaxX - rect.MinX }

// Height returns the vertical extent.
func (rect Rect) Height() float64 { return rect.MaxY - rect.MinY }

// Inset grows the rectangle by margin on every side.
func (rect Rect) Inset(margin float64) Rect {
	return Rect{MinX: rect.MinX - margin, MinY: rect.MinY - margin, MaxX: rect.MaxX + margin, MaxY: rect.MaxY + margin}
}

// Build assembles a scene. Only completed segments are drawn; start and end
// may be nil when no markers should appear.
func Build(segments []model.LineSegment, current []model.Point, start, end *model.Point) Scene {
	built := Scene{Start: start, End: end}
	for _, segment := range segments {
		if !segment.Completed || len(segment.Path) == 0 {
			continue
		}
		built.Segments = append(built.Segments, Polyline{ID: segment.ID, Points: segment.Path})
		built.Junctions = append(built.Junctions, segment.StartPoint)
	}
	if len(current) > 0 {
		built.Current = Polyline{ID: "current", Points: current}
	}
	return built
}

// Empty reports whether there is nothing to draw.
func (built Scene) Empty() bool {
	return len(built.Segments) == 0 && len(built.Current.Points) == 0 && built.Start == nil && built.End == nil
}

// Bounds returns the box containing every point and marker. An empty scene
// has a zero Rect.
func (built Scene) Bounds() Rect {
	bounds := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	include := func(point model.Point) {
		bounds.MinX = math.Min(bounds.MinX, point.X)
		bounds.MinY = math.Min(bounds.MinY, point.Y)
		bounds.MaxX = math.Max(bounds.MaxX, point.X)
		bounds.MaxY = math.Max(bounds.MaxY, point.Y)
	}
	for _, line := range built.Segments {
		for _, point := range line.Points {
			include(point)
		}
	}
	for _, point := range built.Current.Points {
		include(point)
	}
	if built.Start != nil {
		include(*built.Start)
	}
	if built.End != nil {
		include(*built.End)
	}
	if math.IsInf(bounds.MinX, 1) {
		return Rect{}
	}
	return bounds
}
