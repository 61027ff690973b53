package clock

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the tick period.
const DefaultInterval = time.Second

// Ticker is a Driver backed by time.Ticker.
type Ticker struct {
	mu       sync.Mutex
	interval time.Duration
	ch       chan Tick

	generation uint64
	seq        uint64
	started    bool
	paused     bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a ticker driver. A non-positive interval uses DefaultInterval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		interval: interval,
		ch:       make(chan Tick, 1),
	}
}

// Start begins a new generation.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.haltLocked()
	t.drainLocked()
	t.generation++
	t.seq = 0
	t.started = true
	t.paused = false
	t.spawnLocked()
}

// Stop halts emission.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.haltLocked()
	t.drainLocked()
	t.started = false
	t.paused = false
}

// Pause suspends emission.
func (t *Ticker) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.paused {
		return
	}
	t.haltLocked()
	t.paused = true
}

// Resume continues emission; the next tick arrives one interval later.
func (t *Ticker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || !t.paused {
		return
	}
	t.paused = false
	t.spawnLocked()
}

// Ticks returns the tick channel.
func (t *Ticker) Ticks() <-chan Tick {
	return t.ch
}

// Generation returns the current generation.
func (t *Ticker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// Running reports whether ticks are being emitted.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started && !t.paused
}

// spawnLocked starts the emitter goroutine. Must be called with lock held.
func (t *Ticker) spawnLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	generation := t.generation

	go func() {
		defer close(done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				t.mu.Lock()
				if ctx.Err() != nil {
					t.mu.Unlock()
					return
				}
				t.seq++
				tick := Tick{Generation: generation, Seq: t.seq, At: now}
				t.mu.Unlock()

				select {
				case t.ch <- tick:
				default:
					// Consumer is behind; drop rather than queue stale ticks.
				}
			}
		}
	}()
}

// haltLocked stops the emitter goroutine and waits for it to exit.
// Must be called with lock held.
func (t *Ticker) haltLocked() {
	// Another caller may spawn while the lock is released, so loop until
	// no emitter is left.
	for t.cancel != nil {
		t.cancel()
		done := t.done
		t.cancel = nil
		t.done = nil

		// The emitter takes the lock before bumping seq, so release it while waiting.
		t.mu.Unlock()
		<-done
		t.mu.Lock()
	}
}

// drainLocked discards a tick left in the channel buffer.
func (t *Ticker) drainLocked() {
	select {
	case <-t.ch:
	default:
	}
}
