package animation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countdownStepper struct {
	mu        sync.Mutex
	remaining int
	elapsed   []time.Duration
}

func (stepper *countdownStepper) Step(elapsed time.Duration) bool {
	stepper.mu.Lock()
	defer stepper.mu.Unlock()
	stepper.elapsed = append(stepper.elapsed, elapsed)
	if stepper.remaining == 0 {
		return false
	}
	stepper.remaining--
	return true
}

func directDispatch(run func()) { run() }

func TestEngine_RunsUntilSettled(t *testing.T) {
	// Arrange
	stepper := &countdownStepper{remaining: 3}
	var frames atomic.Int32
	engine := New(Config{FrameInterval: time.Millisecond, Dispatch: directDispatch}, stepper, func() {
		frames.Add(1)
	})

	// Act
	engine.Kick(context.Background())

	// Assert
	assert.Eventually(t, func() bool { return !engine.Running() }, time.Second, time.Millisecond)
	assert.Equal(t, int32(3), frames.Load())
}

func TestEngine_KickWhileRunningIsNoop(t *testing.T) {
	stepper := &countdownStepper{remaining: 1000000}
	engine := New(Config{FrameInterval: time.Millisecond, Dispatch: directDispatch}, stepper, nil)

	engine.Kick(context.Background())
	engine.Kick(context.Background())
	assert.True(t, engine.Running())

	engine.Stop()
	assert.Eventually(t, func() bool { return !engine.Running() }, time.Second, time.Millisecond)
}

// kickingStepper kicks its engine during the first step, the way a pan lands
// just as the view settles.
type kickingStepper struct {
	engine *Engine
	calls  atomic.Int32
}

func (stepper *kickingStepper) Step(time.Duration) bool {
	if stepper.calls.Add(1) == 1 {
		stepper.engine.Kick(context.Background())
	}
	return false
}

func TestEngine_KickDuringSettleRunsAnotherFrame(t *testing.T) {
	// Arrange
	stepper := &kickingStepper{}
	engine := New(Config{FrameInterval: time.Millisecond, Dispatch: directDispatch}, stepper, nil)
	stepper.engine = engine

	// Act
	engine.Kick(context.Background())

	// Assert
	assert.Eventually(t, func() bool { return stepper.calls.Load() >= 2 && !engine.Running() }, time.Second, time.Millisecond)
	assert.Equal(t, int32(2), stepper.calls.Load())
}

func TestEngine_ContextCancelStopsLoop(t *testing.T) {
	stepper := &countdownStepper{remaining: 1000000}
	engine := New(Config{FrameInterval: time.Millisecond, Dispatch: directDispatch}, stepper, nil)
	ctx, cancel := context.WithCancel(context.Background())

	engine.Kick(ctx)
	cancel()

	assert.Eventually(t, func() bool { return !engine.Running() }, time.Second, time.Millisecond)
}

func TestSleepWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, sleepWithContext(ctx, time.Hour))
	assert.True(t, sleepWithContext(context.Background(), time.Millisecond))
}
