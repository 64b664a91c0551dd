package gesture

import (
	"context"
	"math"
	"sync"

	"oneline/internal/core/viewport"
)

// Drawer receives single-pointer input in canvas space.
type Drawer interface {
	Down(x, y float64) bool
	Move(ctx context.Context, x, y float64) error
	Up()
	Cancel()
}

type pointer struct {
	x, y float64
}

// Router splits pointer input between drawing and pan/zoom.
// Positions passed in are screen coordinates.
type Router struct {
	mu       sync.Mutex
	drawer   Drawer
	view     *viewport.Viewport
	pointers map[int]pointer
	primary  int
	drawing  bool
	multi    bool
}

// NewRouter creates a Router. drawer may be nil for read-only views.
func NewRouter(drawer Drawer, view *viewport.Viewport) *Router {
	return &Router{
		drawer:   drawer,
		view:     view,
		pointers: make(map[int]pointer),
		primary:  -1,
	}
}

// SetDrawer swaps the drawing target.
func (router *Router) SetDrawer(drawer Drawer) {
	router.mu.Lock()
	defer router.mu.Unlock()
	router.drawer = drawer
}

// Active returns the number of pointers currently down.
func (router *Router) Active() int {
	router.mu.Lock()
	defer router.mu.Unlock()
	return len(router.pointers)
}

// Drawing reports whether the current gesture is feeding the drawer.
func (router *Router) Drawing() bool {
	router.mu.Lock()
	defer router.mu.Unlock()
	return router.drawing && !router.multi
}

// Down registers a pointer.
func (router *Router) Down(id int, x, y float64) {
	router.mu.Lock()
	defer router.mu.Unlock()

	router.pointers[id] = pointer{x: x, y: y}
	if len(router.pointers) > 1 {
		router.multi = true
		return
	}
	router.primary = id
	if router.drawer != nil && !router.drawing {
		cx, cy := router.view.Current().ToCanvas(x, y)
		router.drawing = router.drawer.Down(cx, cy)
	}
}

// Move updates a pointer. With one pointer down it draws, with two it
// pans and zooms.
func (router *Router) Move(ctx context.Context, id int, x, y float64) error {
	router.mu.Lock()
	previous, ok := router.pointers[id]
	if !ok {
		router.mu.Unlock()
		return nil
	}

	if len(router.pointers) >= 2 {
		router.transformLocked(id, previous, pointer{x: x, y: y})
		router.pointers[id] = pointer{x: x, y: y}
		router.mu.Unlock()
		return nil
	}
	router.pointers[id] = pointer{x: x, y: y}

	drawer := router.drawer
	draw := router.drawing && !router.multi && id == router.primary && drawer != nil
	router.mu.Unlock()

	if !draw {
		return nil
	}
	cx, cy := router.view.Current().ToCanvas(x, y)
	return drawer.Move(ctx, cx, cy)
}

// Up releases a pointer. The drawing gesture ends once every pointer is up.
func (router *Router) Up(id int) {
	router.mu.Lock()
	delete(router.pointers, id)
	if len(router.pointers) > 0 {
		router.mu.Unlock()
		return
	}
	drawer := router.drawer
	wasDrawing := router.drawing
	router.resetLocked()
	router.mu.Unlock()

	if wasDrawing && drawer != nil {
		drawer.Up()
	}
}

// Cancel drops every pointer and aborts drawing.
func (router *Router) Cancel() {
	router.mu.Lock()
	drawer := router.drawer
	wasDrawing := router.drawing
	router.pointers = make(map[int]pointer)
	router.resetLocked()
	router.mu.Unlock()

	if wasDrawing && drawer != nil {
		drawer.Cancel()
	}
}

func (router *Router) resetLocked() {
	router.primary = -1
	router.drawing = false
	router.multi = false
}

// transformLocked applies the change of the first two pointers as a pan of
// their centroid and a zoom by their distance ratio.
func (router *Router) transformLocked(id int, previous, next pointer) {
	other, ok := router.otherPointerLocked(id)
	if !ok {
		return
	}
	oldCX, oldCY := (previous.x+other.x)/2, (previous.y+other.y)/2
	newCX, newCY := (next.x+other.x)/2, (next.y+other.y)/2
	router.view.PanBy(newCX-oldCX, newCY-oldCY)

	oldDistance := math.Hypot(previous.x-other.x, previous.y-other.y)
	newDistance := math.Hypot(next.x-other.x, next.y-other.y)
	if oldDistance > 0 && newDistance > 0 {
		router.view.ZoomBy(newDistance/oldDistance, newCX, newCY)
	}
}

func (router *Router) otherPointerLocked(id int) (pointer, bool) {
	best := -1
	for candidate := range router.pointers {
		if candidate == id {
			continue
		}
		if best == -1 || candidate < best {
			best = candidate
		}
	}
	if best == -1 {
		return pointer{}, false
	}
	return router.pointers[best], true
}
