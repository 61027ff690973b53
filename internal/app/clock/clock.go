// Package clock provides the periodic tick source that drives timer runs.
package clock

import "time"

// Tick is a single tick event.
type Tick struct {
	Generation uint64    // Incremented on every Start; consumers drop stale generations
	Seq        uint64    // Tick number within the generation, starting at 1
	At         time.Time // Emission time
}

// Driver is a start/stop/pause controllable tick source.
// At most one emitter is active per driver at any time.
type Driver interface {
	// Start begins a new generation. A running generation is stopped first.
	Start()
	// Stop halts emission. Safe to call multiple times.
	Stop()
	// Pause suspends emission without ending the generation.
	Pause()
	// Resume continues a paused generation.
	Resume()
	// Ticks returns the channel ticks are delivered on.
	Ticks() <-chan Tick
	// Generation returns the current generation number.
	Generation() uint64
	// Running reports whether the driver is started and not paused.
	Running() bool
}
