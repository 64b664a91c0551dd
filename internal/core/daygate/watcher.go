package daygate

import (
	"sync"
	"time"

	"oneline/internal/core/model"
)

// Config contains runtime options for Watcher.
type Config struct {
	TickInterval time.Duration
	Now          func() time.Time
}

// Watcher notices when the calendar day rolls over while the app is open.
type Watcher struct {
	mu      sync.Mutex
	options Config
	day     string
	events  []chan Event
	stopCh  chan struct{}
	resetCh chan time.Duration
	running bool
}

// NewWatcher creates a Watcher anchored at the current day.
func NewWatcher(options Config) *Watcher {
	if options.TickInterval <= 0 {
		options.TickInterval = 30 * time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Watcher{
		options: options,
		day:     model.DayID(options.Now()),
		stopCh:  make(chan struct{}),
		resetCh: make(chan time.Duration, 1),
	}
}

// UpdateConfig changes the tick interval of a running or stopped watcher.
func (watcher *Watcher) UpdateConfig(options Config) {
	if options.TickInterval <= 0 {
		return
	}
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.options.TickInterval == options.TickInterval {
		return
	}
	watcher.options.TickInterval = options.TickInterval
	if !watcher.running {
		return
	}
	select {
	case <-watcher.resetCh:
	default:
	}
	watcher.resetCh <- options.TickInterval
}

// Day returns the day id the watcher last observed.
func (watcher *Watcher) Day() string {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	return watcher.day
}

// Subscribe registers a new observer channel.
func (watcher *Watcher) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	watcher.mu.Lock()
	watcher.events = append(watcher.events, ch)
	watcher.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (watcher *Watcher) Start() {
	watcher.mu.Lock()
	if watcher.running {
		watcher.mu.Unlock()
		return
	}
	watcher.running = true
	watcher.mu.Unlock()

	go watcher.run()
}

// Stop terminates the ticking loop and closes observers.
func (watcher *Watcher) Stop() {
	watcher.mu.Lock()
	if !watcher.running {
		watcher.mu.Unlock()
		return
	}
	close(watcher.stopCh)
	watcher.running = false
	events := watcher.events
	watcher.events = nil
	watcher.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (watcher *Watcher) run() {
	watcher.mu.Lock()
	interval := watcher.options.TickInterval
	watcher.mu.Unlock()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-watcher.stopCh:
			return
		case interval := <-watcher.resetCh:
			ticker.Reset(interval)
		case <-ticker.C:
			watcher.tick(watcher.options.Now())
		}
	}
}

func (watcher *Watcher) tick(now time.Time) {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()

	day := model.DayID(now)
	if day == watcher.day {
		return
	}
	previous := watcher.day
	watcher.day = day
	watcher.emitLocked(Event{
		Type:     EventDayChanged,
		Previous: previous,
		Day:      day,
		At:       now,
	})
}

func (watcher *Watcher) emitLocked(event Event) {
	for _, ch := range watcher.events {
		select {
		case ch <- event:
		default:
		}
	}
}
