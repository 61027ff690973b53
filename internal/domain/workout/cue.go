package workout

// Cue is a named audio event.
type Cue string

const (
	CueCountdownTick    Cue = "countdown-tick"
	CuePhaseMidpoint    Cue = "phase-midpoint"
	CuePhaseFinal       Cue = "phase-final-seconds"
	CuePhaseComplete    Cue = "phase-complete"
	CueSequenceComplete Cue = "sequence-complete"
)

// AllCues returns every cue the engine can request.
func AllCues() []Cue {
	return []Cue{
		CueCountdownTick,
		CuePhaseMidpoint,
		CuePhaseFinal,
		CuePhaseComplete,
		CueSequenceComplete,
	}
}

// String returns the cue identifier.
func (c Cue) String() string {
	return string(c)
}
