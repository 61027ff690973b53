package clock

import (
	"sync"
	"time"
)

// Manual is a Driver whose ticks are fired explicitly. Fire blocks until
// the consumer has received the tick, so a caller that fires and then
// issues a command observes the tick fully applied.
type Manual struct {
	mu         sync.Mutex
	ch         chan Tick
	generation uint64
	seq        uint64
	started    bool
	paused     bool
	now        func() time.Time
}

// NewManual creates a manual driver.
func NewManual() *Manual {
	return &Manual{
		ch:  make(chan Tick),
		now: time.Now,
	}
}

// Start begins a new generation.
func (m *Manual) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.seq = 0
	m.started = true
	m.paused = false
}

// Stop halts emission.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	m.paused = false
}

// Pause suspends emission.
func (m *Manual) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		m.paused = true
	}
}

// Resume continues emission.
func (m *Manual) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
}

// Ticks returns the tick channel.
func (m *Manual) Ticks() <-chan Tick {
	return m.ch
}

// Generation returns the current generation.
func (m *Manual) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Running reports whether Fire would deliver a tick.
func (m *Manual) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started && !m.paused
}

// Fire delivers one tick and reports whether it was sent. Nothing is sent
// while the driver is stopped or paused, or if nobody receives within timeout.
func (m *Manual) Fire(timeout time.Duration) bool {
	m.mu.Lock()
	if !m.started || m.paused {
		m.mu.Unlock()
		return false
	}
	m.seq++
	tick := Tick{Generation: m.generation, Seq: m.seq, At: m.now()}
	m.mu.Unlock()

	select {
	case m.ch <- tick:
		return true
	case <-time.After(timeout):
		return false
	}
}

// FireStale delivers a tick carrying the previous generation. It exists to
// exercise consumers' stale-tick handling.
func (m *Manual) FireStale(timeout time.Duration) bool {
	m.mu.Lock()
	tick := Tick{Generation: m.generation - 1, Seq: 1, At: m.now()}
	m.mu.Unlock()

	select {
	case m.ch <- tick:
		return true
	case <-time.After(timeout):
		return false
	}
}
