// Package sequence runs an ordered list of timers back to back.
package sequence

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wodbox/internal/app/interval"
	"github.com/osa030/wodbox/internal/domain/workout"
)

// Outcome extends the child outcome with sequence progress.
type Outcome struct {
	interval.Outcome
	Advanced bool // The active child completed and the next one started
}

// Snapshot is the active child's snapshot with its position in the sequence.
type Snapshot struct {
	interval.Snapshot
	SequenceID string
	Index      int // 0-based position of the active child
	Count      int
}

// Runner owns at most one child machine at a time.
type Runner struct {
	id        string
	entries   []workout.TimerConfig
	cursor    int
	child     *interval.Machine
	completed bool
	final     Snapshot

	newMachine func() *interval.Machine
	newID      func() string
}

// NewRunner creates an idle runner.
func NewRunner() *Runner {
	return &Runner{
		newMachine: interval.NewMachine,
		newID:      uuid.NewString,
	}
}

// Start validates every entry and starts the first one.
func (r *Runner) Start(cfgs []workout.TimerConfig) error {
	if len(cfgs) == 0 {
		return errors.Wrap(workout.ErrInvalidConfig, "sequence has no steps")
	}

	entries := make([]workout.TimerConfig, 0, len(cfgs))
	for i, cfg := range cfgs {
		normalized, err := cfg.Normalize()
		if err != nil {
			return errors.Wrapf(err, "sequence step %d", i+1)
		}
		entries = append(entries, normalized)
	}

	r.Reset()
	r.id = r.newID()
	r.entries = entries
	return r.startChild(0)
}

// Reset drops the sequence and any active child.
func (r *Runner) Reset() {
	if r.child != nil {
		r.child.Reset()
	}
	r.id = ""
	r.entries = nil
	r.cursor = 0
	r.child = nil
	r.completed = false
	r.final = Snapshot{}
}

// Tick forwards one tick to the active child.
func (r *Runner) Tick(seq uint64) Outcome {
	if r.child == nil {
		return Outcome{}
	}
	return r.afterChild(r.child.Tick(seq))
}

// AdvancePhase forwards the manual advance to the active child.
func (r *Runner) AdvancePhase() (Outcome, error) {
	if r.child == nil {
		return Outcome{}, errors.Wrap(workout.ErrIllegalTransition, "no active sequence step")
	}
	out, err := r.child.AdvancePhase()
	if err != nil {
		return Outcome{}, err
	}
	return r.afterChild(out), nil
}

// Pause pauses the active child.
func (r *Runner) Pause() error {
	if r.child == nil {
		return errors.Wrap(workout.ErrIllegalTransition, "no active sequence step")
	}
	return r.child.Pause()
}

// Resume resumes the active child.
func (r *Runner) Resume() error {
	if r.child == nil {
		return errors.Wrap(workout.ErrIllegalTransition, "no active sequence step")
	}
	return r.child.Resume()
}

// TogglePause toggles the active child.
func (r *Runner) TogglePause() error {
	if r.child == nil {
		return errors.Wrap(workout.ErrIllegalTransition, "no active sequence step")
	}
	return r.child.TogglePause()
}

// Paused reports whether the active child is paused.
func (r *Runner) Paused() bool {
	return r.child != nil && r.child.Paused()
}

// Phase returns the phase of the active child, or the sequence state
// when no child exists.
func (r *Runner) Phase() workout.Phase {
	switch {
	case r.child != nil:
		return r.child.Phase()
	case r.completed:
		return workout.PhaseCompleted
	default:
		return workout.PhaseIdle
	}
}

// Snapshot returns the current state.
func (r *Runner) Snapshot() Snapshot {
	switch {
	case r.child != nil:
		return Snapshot{
			Snapshot:   r.child.Snapshot(),
			SequenceID: r.id,
			Index:      r.cursor,
			Count:      len(r.entries),
		}
	case r.completed:
		return r.final
	default:
		return Snapshot{Snapshot: interval.Snapshot{Phase: workout.PhaseIdle, Round: 1}}
	}
}

func (r *Runner) startChild(i int) error {
	child := r.newMachine()
	if err := child.Start(r.entries[i]); err != nil {
		return err
	}
	r.cursor = i
	r.child = child
	return nil
}

func (r *Runner) afterChild(out interval.Outcome) Outcome {
	if !out.Completed {
		return Outcome{Outcome: out}
	}

	if next := r.cursor + 1; next < len(r.entries) {
		prev := r.child
		if err := r.startChild(next); err != nil {
			// The sequence ends on the step that just finished.
			zlog.Error().Err(err).
				Str("sequence_id", r.id).
				Int("step", next+1).
				Msg("cannot start sequence step, finishing sequence")
		} else {
			prev.Reset()
			out.Completed = false
			out.PhaseChanged = true
			return Outcome{Outcome: out, Advanced: true}
		}
	}

	final := r.child.Snapshot()
	r.final = Snapshot{
		Snapshot:   final,
		SequenceID: r.id,
		Index:      r.cursor,
		Count:      len(r.entries),
	}
	r.completed = true
	r.entries = nil
	r.cursor = 0
	r.child = nil

	out.Cue = workout.CueSequenceComplete
	out.HasCue = true
	return Outcome{Outcome: out}
}
