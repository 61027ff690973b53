package engine

import (
	"github.com/osa030/wodbox/internal/app/interval"
	"github.com/osa030/wodbox/internal/app/sequence"
	"github.com/osa030/wodbox/internal/domain/workout"
)

// run is the active timer or sequence.
type run interface {
	Tick(seq uint64) sequence.Outcome
	AdvancePhase() (sequence.Outcome, error)
	Pause() error
	Resume() error
	TogglePause() error
	Reset()
	Paused() bool
	Phase() workout.Phase
	Snapshot() sequence.Snapshot
}

// single adapts a lone machine to the run interface as a one-step sequence.
type single struct {
	m *interval.Machine
}

func (s single) Tick(seq uint64) sequence.Outcome {
	return sequence.Outcome{Outcome: s.m.Tick(seq)}
}

func (s single) AdvancePhase() (sequence.Outcome, error) {
	out, err := s.m.AdvancePhase()
	return sequence.Outcome{Outcome: out}, err
}

func (s single) Pause() error         { return s.m.Pause() }
func (s single) Resume() error        { return s.m.Resume() }
func (s single) TogglePause() error   { return s.m.TogglePause() }
func (s single) Reset()               { s.m.Reset() }
func (s single) Paused() bool         { return s.m.Paused() }
func (s single) Phase() workout.Phase { return s.m.Phase() }

func (s single) Snapshot() sequence.Snapshot {
	return sequence.Snapshot{Snapshot: s.m.Snapshot(), Count: 1}
}

// idleSnapshot is reported while no run exists.
func idleSnapshot() sequence.Snapshot {
	return sequence.Snapshot{Snapshot: interval.Snapshot{Phase: workout.PhaseIdle, Round: 1}}
}
