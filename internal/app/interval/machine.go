package interval

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/osa030/wodbox/internal/app/cue"
	"github.com/osa030/wodbox/internal/domain/workout"
)

// Machine is the run state of a single timer. It holds no goroutines or
// timers: ticks and user actions are applied by one caller at a time.
type Machine struct {
	cfg        workout.TimerConfig
	configured bool
	runID      string

	phase        workout.Phase
	remaining    int // Countdown value for preroll and countdown phases
	elapsed      int // Count-up value for the For-Time work phase
	duration     int // Length of the current countdown phase
	round        int
	elapsedTotal int
	paused       bool

	cues  *cue.Scheduler
	newID func() string
}

// NewMachine creates an idle machine.
func NewMachine() *Machine {
	m := &Machine{
		cues:  cue.NewScheduler(),
		newID: uuid.NewString,
	}
	m.Reset()
	return m
}

// Start validates cfg and begins the preroll countdown. On error the
// machine is left untouched.
func (m *Machine) Start(cfg workout.TimerConfig) error {
	normalized, err := cfg.Normalize()
	if err != nil {
		return errors.Wrapf(err, "cannot start %s timer", cfg.Kind)
	}

	m.Reset()
	m.cfg = normalized
	m.configured = true
	m.runID = m.newID()
	m.phase = workout.PhasePreroll
	m.remaining = workout.PrerollSeconds
	m.duration = workout.PrerollSeconds
	return nil
}

// Reset returns the machine to Idle and clears the configuration.
func (m *Machine) Reset() {
	m.cfg = workout.TimerConfig{}
	m.configured = false
	m.runID = ""
	m.phase = workout.PhaseIdle
	m.remaining = 0
	m.elapsed = 0
	m.duration = 0
	m.round = 1
	m.elapsedTotal = 0
	m.paused = false
	m.cues.Reset()
}

// Config returns the active configuration and whether one is set.
func (m *Machine) Config() (workout.TimerConfig, bool) {
	return m.cfg, m.configured
}

// Phase returns the current phase.
func (m *Machine) Phase() workout.Phase {
	return m.phase
}

// Tick applies one second. Ticks are ignored when idle, paused or completed.
func (m *Machine) Tick(seq uint64) Outcome {
	if !m.phase.Active() || m.paused {
		return Outcome{}
	}

	m.cues.Begin(seq)
	prevPhase, prevRound := m.phase, m.round

	if m.phase == workout.PhasePreroll {
		m.tickPreroll()
	} else {
		m.elapsedTotal++
		switch m.cfg.Kind {
		case workout.KindAMRAP:
			m.tickAMRAP()
		case workout.KindEMOM:
			m.tickEMOM()
		case workout.KindTabata:
			m.tickTabata()
		case workout.KindForTime:
			m.tickForTime()
		}
	}

	return m.outcome(prevPhase, prevRound)
}

// AdvancePhase is the manual "next phase" action. It is accepted during
// the active phases of For-Time and timed AMRAP only.
func (m *Machine) AdvancePhase() (Outcome, error) {
	if m.phase != workout.PhaseWork && m.phase != workout.PhaseRest {
		return Outcome{}, errors.Wrapf(workout.ErrIllegalTransition, "advance phase during %s", m.phase)
	}

	prevPhase, prevRound := m.phase, m.round

	switch {
	case m.cfg.Kind == workout.KindForTime:
		if m.phase == workout.PhaseWork {
			m.enterCountdown(workout.PhaseRest, m.cfg.ForTime.RestSeconds)
		} else {
			m.finishSeries()
		}

	case m.cfg.Kind == workout.KindAMRAP && m.cfg.AMRAP.Mode == workout.AmrapTimed:
		m.toggleAMRAP()

	default:
		return Outcome{}, errors.Wrapf(workout.ErrIllegalTransition, "advance phase is not supported by %s", m.cfg.Kind)
	}

	return m.outcome(prevPhase, prevRound), nil
}

// Pause freezes the run. Only accepted during active phases after the preroll.
func (m *Machine) Pause() error {
	if m.phase != workout.PhaseWork && m.phase != workout.PhaseRest {
		return errors.Wrapf(workout.ErrIllegalTransition, "pause during %s", m.phase)
	}
	if m.paused {
		return errors.Wrap(workout.ErrIllegalTransition, "already paused")
	}
	m.paused = true
	return nil
}

// Resume continues a paused run.
func (m *Machine) Resume() error {
	if !m.paused {
		return errors.Wrap(workout.ErrIllegalTransition, "not paused")
	}
	m.paused = false
	return nil
}

// TogglePause is the circle press: pause when running, resume when paused.
func (m *Machine) TogglePause() error {
	if m.paused {
		return m.Resume()
	}
	return m.Pause()
}

// Paused reports whether the run is paused.
func (m *Machine) Paused() bool {
	return m.paused
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		RunID:        m.runID,
		Kind:         m.cfg.Kind,
		Mode:         m.cfg.AMRAP.Mode,
		Label:        m.cfg.Label,
		Phase:        m.phase,
		Round:        m.round,
		TotalRounds:  m.cfg.TotalRounds(),
		ElapsedTotal: m.elapsedTotal,
		Paused:       m.paused,
	}
	if total, bounded := m.cfg.TotalActiveSeconds(); bounded && m.configured {
		s.TotalSeconds = total
	}

	switch {
	case m.phase == workout.PhaseWork && m.countsUp():
		s.Seconds = m.elapsed
		s.CountsUp = true
	case m.phase.Active():
		s.Seconds = m.remaining
		s.Duration = m.duration
	}
	return s
}

func (m *Machine) tickPreroll() {
	if m.remaining <= 1 {
		m.enterFirstPhase()
		return
	}
	m.remaining--
}

func (m *Machine) enterFirstPhase() {
	switch m.cfg.Kind {
	case workout.KindAMRAP:
		if m.cfg.AMRAP.Mode == workout.AmrapTimed {
			m.enterCountdown(workout.PhaseWork, m.cfg.AMRAP.WorkSeconds)
		} else {
			m.enterCountdown(workout.PhaseWork, m.cfg.AMRAP.TotalMinutes*60)
		}
	case workout.KindEMOM:
		m.enterCountdown(workout.PhaseWork, m.cfg.EMOM.IntervalSeconds)
	case workout.KindTabata:
		m.enterCountdown(workout.PhaseWork, m.cfg.Tabata.WorkSeconds)
	case workout.KindForTime:
		m.enterCountUp()
	}
}

func (m *Machine) tickAMRAP() {
	if m.cfg.AMRAP.Mode == workout.AmrapTimed {
		// The overall boundary wins over a sub-phase boundary on the same tick.
		if m.elapsedTotal >= m.cfg.AMRAP.TotalMinutes*60 {
			m.complete()
			return
		}
		if m.remaining <= 1 {
			m.toggleAMRAP()
			return
		}
		m.remaining--
		return
	}

	if m.remaining <= 1 {
		m.complete()
		return
	}
	m.remaining--
}

func (m *Machine) toggleAMRAP() {
	if m.phase == workout.PhaseWork {
		m.enterCountdown(workout.PhaseRest, m.cfg.AMRAP.RestSeconds)
	} else {
		m.enterCountdown(workout.PhaseWork, m.cfg.AMRAP.WorkSeconds)
	}
}

func (m *Machine) tickEMOM() {
	if m.remaining > 1 {
		m.remaining--
		return
	}
	if m.round >= m.cfg.EMOM.Rounds {
		m.complete()
		return
	}
	m.round++
	m.enterCountdown(workout.PhaseWork, m.cfg.EMOM.IntervalSeconds)
}

func (m *Machine) tickTabata() {
	if m.remaining > 1 {
		m.remaining--
		return
	}
	if m.phase == workout.PhaseWork {
		m.enterCountdown(workout.PhaseRest, m.cfg.Tabata.RestSeconds)
		return
	}
	if m.round >= m.cfg.Tabata.Rounds {
		m.complete()
		return
	}
	m.round++
	m.enterCountdown(workout.PhaseWork, m.cfg.Tabata.WorkSeconds)
}

func (m *Machine) tickForTime() {
	if m.phase == workout.PhaseWork {
		m.elapsed++
		return
	}
	if m.remaining > 1 {
		m.remaining--
		return
	}
	m.finishSeries()
}

// finishSeries ends a For-Time rest.
func (m *Machine) finishSeries() {
	if m.round >= m.cfg.ForTime.Series {
		m.complete()
		return
	}
	m.round++
	m.enterCountUp()
}

func (m *Machine) enterCountdown(p workout.Phase, seconds int) {
	m.phase = p
	m.remaining = seconds
	m.duration = seconds
	m.elapsed = 0
}

func (m *Machine) enterCountUp() {
	m.phase = workout.PhaseWork
	m.remaining = 0
	m.duration = 0
	m.elapsed = 0
}

func (m *Machine) complete() {
	m.phase = workout.PhaseCompleted
	m.remaining = 0
	m.elapsed = 0
	m.duration = 0
	m.paused = false
}

func (m *Machine) countsUp() bool {
	return m.cfg.Kind == workout.KindForTime && m.phase == workout.PhaseWork
}

func (m *Machine) outcome(prevPhase workout.Phase, prevRound int) Outcome {
	out := Outcome{
		Applied:      true,
		PhaseChanged: prevPhase != m.phase || prevRound != m.round,
	}

	if m.phase == workout.PhaseCompleted {
		out.Completed = true
		out.setCue(m.cues.Complete(workout.CuePhaseComplete))
		return out
	}

	out.setCue(m.cues.Evaluate(cue.Observation{
		Phase:     m.phase,
		Duration:  m.duration,
		Remaining: m.remaining,
		Elapsed:   m.elapsed,
		CountsUp:  m.countsUp(),
	}))
	return out
}
