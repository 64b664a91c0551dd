package viewport

import (
	"math"
	"sync"
	"time"
)

const (
	MinScale = 0.5
	MaxScale = 3.0

	// DefaultEase is the time constant of the exponential easing.
	DefaultEase = 90 * time.Millisecond

	snapDistance = 0.05
	snapScale    = 0.0005
)

// Transform maps canvas space to screen space: screen = canvas*Scale + Offset.
type Transform struct {
	OffsetX float64
	OffsetY float64
	Scale   float64
}

// Identity returns the transform that leaves coordinates unchanged.
func Identity() Transform {
	return Transform{Scale: 1}
}

// ToScreen maps a canvas point to the screen.
func (transform Transform) ToScreen(x, y float64) (float64, float64) {
	return x*transform.Scale + transform.OffsetX, y*transform.Scale + transform.OffsetY
}

// ToCanvas maps a screen point back to canvas space.
func (transform Transform) ToCanvas(x, y float64) (float64, float64) {
	return (x - transform.OffsetX) / transform.Scale, (y - transform.OffsetY) / transform.Scale
}

// ClampScale limits a scale factor to the supported zoom range.
func ClampScale(scale float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, scale))
}

// Viewport holds the requested transform and the eased one being displayed.
type Viewport struct {
	mu      sync.Mutex
	current Transform
	target  Transform
	ease    time.Duration
}

// New creates a Viewport at identity. ease <= 0 selects DefaultEase.
func New(ease time.Duration) *Viewport {
	if ease <= 0 {
		ease = DefaultEase
	}
	return &Viewport{
		current: Identity(),
		target:  Identity(),
		ease:    ease,
	}
}

// SetEase changes the easing time constant. ease <= 0 selects DefaultEase.
func (viewport *Viewport) SetEase(ease time.Duration) {
	if ease <= 0 {
		ease = DefaultEase
	}
	viewport.mu.Lock()
	defer viewport.mu.Unlock()
	viewport.ease = ease
}

// Current returns the displayed transform.
func (viewport *Viewport) Current() Transform {
	viewport.mu.Lock()
	defer viewport.mu.Unlock()
	return viewport.current
}

// Target returns the transform the view is easing toward.
func (viewport *Viewport) Target() Transform {
	viewport.mu.Lock()
	defer viewport.mu.Unlock()
	return viewport.target
}

// PanBy translates the target by a screen-space delta.
func (viewport *Viewport) PanBy(dx, dy float64) {
	viewport.mu.Lock()
	defer viewport.mu.Unlock()
	viewport.target.OffsetX += dx
	viewport.target.OffsetY += dy
}

// ZoomBy multiplies the target scale, keeping the screen focus point fixed.
func (viewport *Viewport) ZoomBy(factor, focusX, focusY float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	viewport.mu.Lock()
	defer viewport.mu.Unlock()

	oldScale := viewport.target.Scale
	newScale := ClampScale(oldScale * factor)
	ratio := newScale / oldScale
	viewport.target.OffsetX = focusX - (focusX-viewport.target.OffsetX)*ratio
	viewport.target.OffsetY = focusY - (focusY-viewport.target.OffsetY)*ratio
	viewport.target.Scale = newScale
}

// Reset returns the target to identity.
func (viewport *Viewport) Reset() {
	viewport.mu.Lock()
	defer viewport.mu.Unlock()
	viewport.target = Identity()
}

// Jump sets both transforms without easing.
func (viewport *Viewport) Jump(transform Transform) {
	transform.Scale = ClampScale(transform.Scale)
	viewport.mu.Lock()
	defer viewport.mu.Unlock()
	viewport.current = transform
	viewport.target = transform
}

// Step eases the displayed transform toward the target and reports whether
// it changed.
func (viewport *Viewport) Step(elapsed time.Duration) bool {
	viewport.mu.Lock()
	defer viewport.mu.Unlock()

	if viewport.current == viewport.target {
		return false
	}
	alpha := 1 - math.Exp(-float64(elapsed)/float64(viewport.ease))
	next := Transform{
		OffsetX: viewport.current.OffsetX + (viewport.target.OffsetX-viewport.current.OffsetX)*alpha,
		OffsetY: viewport.current.OffsetY + (viewport.target.OffsetY-viewport.current.OffsetY)*alpha,
		Scale:   viewport.current.Scale + (viewport.target.Scale-viewport.current.Scale)*alpha,
	}
	if math.Abs(next.OffsetX-viewport.target.OffsetX) < snapDistance &&
		math.Abs(next.OffsetY-viewport.target.OffsetY) < snapDistance &&
		math.Abs(next.Scale-viewport.target.Scale) < snapScale {
		next = viewport.target
	}
	viewport.current = next
	return true
}
