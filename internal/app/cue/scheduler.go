// Package cue decides which audio cue, if any, a timer observation triggers.
package cue

import "github.com/osa030/wodbox/internal/domain/workout"

// Cue offsets in seconds.
const (
	CountdownFrom = 3  // Preroll seconds that tick audibly
	FinalSeconds  = 5  // Remaining seconds announced near the end of a phase
	MinuteMark    = 60 // Elapsed interval announced while counting up
)

// Observation is the state of the active phase after a tick has been applied.
type Observation struct {
	Phase     workout.Phase
	Duration  int // Configured length of the phase, 0 when counting up
	Remaining int // Seconds left when counting down
	Elapsed   int // Seconds elapsed when counting up
	CountsUp  bool
}

// Scheduler turns observations into cues. It remembers which cues fired
// during the current tick window so none plays twice in the same second,
// and lets at most one non-completion cue through per window.
type Scheduler struct {
	window  uint64
	fired   map[workout.Cue]struct{}
	emitted bool
}

// NewScheduler creates a scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{fired: make(map[workout.Cue]struct{})}
}

// Begin opens the window for tick seq. Re-opening the current window keeps its guard.
func (s *Scheduler) Begin(seq uint64) {
	if seq == s.window {
		return
	}
	s.window = seq
	s.clearGuard()
}

// Window returns the current tick window.
func (s *Scheduler) Window() uint64 {
	return s.window
}

// Evaluate returns the cue triggered by obs, if any.
func (s *Scheduler) Evaluate(obs Observation) (workout.Cue, bool) {
	if s.emitted {
		return "", false
	}
	for _, c := range Candidates(obs) {
		if s.hasFired(c) {
			continue
		}
		s.mark(c)
		s.emitted = true
		return c, true
	}
	return "", false
}

// Complete returns the completion cue for the window. Completion always
// takes precedence over a cue already emitted in the same window, but the
// same completion cue is never returned twice.
func (s *Scheduler) Complete(c workout.Cue) (workout.Cue, bool) {
	if s.hasFired(c) {
		return "", false
	}
	s.mark(c)
	s.emitted = true
	return c, true
}

// Reset clears the guard and the window.
func (s *Scheduler) Reset() {
	s.window = 0
	s.clearGuard()
}

// Candidates returns the cues obs qualifies for, highest priority first.
func Candidates(obs Observation) []workout.Cue {
	switch obs.Phase {
	case workout.PhasePreroll:
		if obs.Remaining >= 1 && obs.Remaining <= CountdownFrom {
			return []workout.Cue{workout.CueCountdownTick}
		}
		return nil

	case workout.PhaseWork, workout.PhaseRest:
		if obs.CountsUp {
			if obs.Elapsed > 0 && obs.Elapsed%MinuteMark == 0 {
				return []workout.Cue{workout.CuePhaseMidpoint}
			}
			return nil
		}

		var out []workout.Cue
		if obs.Duration > FinalSeconds && obs.Remaining == FinalSeconds {
			out = append(out, workout.CuePhaseFinal)
		}
		// Phases long enough for a final-seconds cue keep the midpoint clear of it.
		if mid := obs.Duration / 2; mid >= 1 && (obs.Duration <= FinalSeconds || mid > FinalSeconds) && obs.Remaining == mid {
			out = append(out, workout.CuePhaseMidpoint)
		}
		return out

	default:
		return nil
	}
}

func (s *Scheduler) hasFired(c workout.Cue) bool {
	_, ok := s.fired[c]
	return ok
}

func (s *Scheduler) mark(c workout.Cue) {
	s.fired[c] = struct{}{}
}

func (s *Scheduler) clearGuard() {
	clear(s.fired)
	s.emitted = false
}
