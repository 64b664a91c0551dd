package model

import (
	"math"
	"sort"
	"time"
)

// DayLayout is the format of segment ids.
const DayLayout = "2006-01-02"

// DefaultColorScheme is the stroke colour used before the user picks one.
const DefaultColorScheme = "#3B82F6"

// Point is a single recorded touch sample in canvas space.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Pressure  float64 `json:"pressure,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// NewPoint records a point at the given instant.
func NewPoint(x, y float64, at time.Time) Point {
	return Point{X: x, Y: y, Timestamp: at.UnixMilli()}
}

// Distance returns the euclidean distance between two points.
func (point Point) Distance(other Point) float64 {
	return math.Hypot(other.X-point.X, other.Y-point.Y)
}

// Offset returns a copy moved by dx, dy with a zero timestamp.
func (point Point) Offset(dx, dy float64) Point {
	return Point{X: point.X + dx, Y: point.Y + dy}
}

// LineSegment is the line drawn on one calendar day.
type LineSegment struct {
	ID         string    `json:"id" validate:"required,datetime=2006-01-02"`
	Date       time.Time `json:"date"`
	Path       []Point   `json:"path" validate:"min=1"`
	StartPoint Point     `json:"startPoint"`
	EndPoint   Point     `json:"endPoint"`
	Duration   float64   `json:"duration" validate:"gte=0"`
	Completed  bool      `json:"completed"`
}

// Stats aggregates completed segments.
type Stats struct {
	TotalDays    int        `json:"totalDays" validate:"gte=0"`
	FirstDrawing *time.Time `json:"firstDrawing"`
}

// AppData is the whole persisted state.
type AppData struct {
	ColorScheme  string        `json:"colorScheme" validate:"omitempty,hexcolor"`
	LineSegments []LineSegment `json:"lineSegments" validate:"dive"`
	Stats        Stats         `json:"stats"`
}

// DayID returns the segment id for the calendar day containing t.
// Days are counted in UTC.
func DayID(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// DefaultAppData returns the structure used when nothing is stored.
func DefaultAppData() AppData {
	return AppData{
		ColorScheme:  DefaultColorScheme,
		LineSegments: []LineSegment{},
	}
}

// Segment looks up a segment by id.
func (data AppData) Segment(id string) (LineSegment, bool) {
	for _, segment := range data.LineSegments {
		if segment.ID == id {
			return segment, true
		}
	}
	return LineSegment{}, false
}

// CompletedSegments returns completed segments in id order.
func (data AppData) CompletedSegments() []LineSegment {
	completed := make([]LineSegment, 0, len(data.LineSegments))
	for _, segment := range data.LineSegments {
		if segment.Completed {
			completed = append(completed, segment)
		}
	}
	return completed
}

// LastCompleted returns the most recent completed segment.
func (data AppData) LastCompleted() (LineSegment, bool) {
	for i := len(data.LineSegments) - 1; i >= 0; i-- {
		if data.LineSegments[i].Completed {
			return data.LineSegments[i], true
		}
	}
	return LineSegment{}, false
}

// PutSegment replaces any segment with the same id, keeps the list sorted
// by id and recomputes stats.
func (data *AppData) PutSegment(segment LineSegment) {
	kept := make([]LineSegment, 0, len(data.LineSegments)+1)
	for _, existing := range data.LineSegments {
		if existing.ID != segment.ID {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, segment)
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].ID < kept[j].ID
	})
	data.LineSegments = kept
	data.RecomputeStats()
}

// RecomputeStats rebuilds Stats from the segment list.
func (data *AppData) RecomputeStats() {
	stats := Stats{}
	for _, segment := range data.LineSegments {
		if !segment.Completed {
			continue
		}
		stats.TotalDays++
		if stats.FirstDrawing == nil {
			first := segment.Date
			stats.FirstDrawing = &first
		}
	}
	data.Stats = stats
}
