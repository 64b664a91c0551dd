package tracker

import "oneline/internal/core/model"

const (
	// CaptureRadius is how close a touch must be to a marker to count.
	CaptureRadius = 30.0
	// FinishDistance is the horizontal gap between start and end markers.
	FinishDistance = 650.0
)

// DefaultStart is the start marker before any segment has been completed.
var DefaultStart = model.Point{X: 100, Y: 200}

// PlaceMarkers continues the drawing from the end of the last completed
// segment. segments must be sorted by id.
func PlaceMarkers(segments []model.LineSegment) (start, end model.Point) {
	start = DefaultStart
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Completed {
			last := segments[i].EndPoint
			start = model.Point{X: last.X, Y: last.Y}
			break
		}
	}
	return start, start.Offset(FinishDistance, 0)
}
