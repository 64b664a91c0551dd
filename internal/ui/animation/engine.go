package animation

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// DefaultFrameInterval is roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Stepper advances an animated value by the elapsed time and reports whether
// it changed.
type Stepper interface {
	Step(elapsed time.Duration) bool
}

// Config contains frame timing values.
type Config struct {
	FrameInterval time.Duration
	// Dispatch runs a frame callback on the UI goroutine. Defaults to fyne.Do.
	Dispatch func(func())
	Now      func() time.Time
}

// Engine drives a Stepper until it settles, redrawing after every frame.
type Engine struct {
	mu      sync.Mutex
	config  Config
	stepper Stepper
	onFrame func()
	cancel  context.CancelFunc
	running bool
	pending bool
}

// New creates a new frame engine.
func New(config Config, stepper Stepper, onFrame func()) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultFrameInterval
	}
	if config.Dispatch == nil {
		config.Dispatch = fyne.Do
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Engine{
		config:  config,
		stepper: stepper,
		onFrame: onFrame,
	}
}

// Kick starts the frame loop. A kick while the loop runs keeps it alive for
// at least one more frame. The loop exits once the stepper reports no change.
func (engine *Engine) Kick(ctx context.Context) {
	engine.mu.Lock()
	if engine.running {
		engine.pending = true
		engine.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	engine.cancel = cancel
	engine.running = true
	engine.pending = false
	engine.mu.Unlock()

	go engine.run(runCtx)
}

// Running reports whether a frame loop is active.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.running
}

// Stop terminates the active frame loop.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) run(ctx context.Context) {
	last := engine.config.Now()
	for {
		if !sleepWithContext(ctx, engine.config.FrameInterval) {
			engine.mu.Lock()
			engine.finishLocked()
			engine.mu.Unlock()
			return
		}
		now := engine.config.Now()
		changed := engine.stepper.Step(now.Sub(last))
		last = now
		if !changed && engine.settle() {
			return
		}
		if changed && engine.onFrame != nil {
			engine.config.Dispatch(engine.onFrame)
		}
	}
}

// settle ends the loop unless a kick arrived since the last frame.
func (engine *Engine) settle() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.pending {
		engine.pending = false
		return false
	}
	engine.finishLocked()
	return true
}

func (engine *Engine) finishLocked() {
	engine.running = false
	engine.pending = false
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
