// Package interval implements the timer state machine shared by every
// workout kind: preroll countdown, active phases and completion.
package interval

import "github.com/osa030/wodbox/internal/domain/workout"

// Snapshot is a read-only view of a run for the presentation layer.
type Snapshot struct {
	RunID        string
	Kind         workout.Kind
	Mode         workout.AmrapMode
	Label        string
	Phase        workout.Phase
	Seconds      int  // Remaining seconds, or elapsed seconds when CountsUp
	CountsUp     bool // Work phase of For-Time
	Duration     int  // Length of the current phase, 0 when counting up
	Round        int  // 1-based round or series
	TotalRounds  int  // 0 for kinds without rounds
	ElapsedTotal int  // Active seconds since the preroll ended
	TotalSeconds int  // Bounded run length in active seconds, 0 if unbounded
	Paused       bool
}

// Outcome describes what a tick or action did.
type Outcome struct {
	Applied      bool // State changed
	PhaseChanged bool // Phase or round changed
	Completed    bool // Run entered Completed
	Cue          workout.Cue
	HasCue       bool
}

func (o *Outcome) setCue(c workout.Cue, ok bool) {
	if ok {
		o.Cue = c
		o.HasCue = true
	}
}
