package workout

// PrerollSeconds is the fixed countdown before the first active phase.
const PrerollSeconds = 10

// Phase represents a sub-state of a timer run.
type Phase int

const (
	PhaseIdle      Phase = iota // No run configured
	PhasePreroll                // Pre-start countdown
	PhaseWork                   // Work interval
	PhaseRest                   // Rest interval
	PhaseCompleted              // Run finished
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreroll:
		return "preroll"
	case PhaseWork:
		return "work"
	case PhaseRest:
		return "rest"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Active reports whether the phase consumes ticks.
func (p Phase) Active() bool {
	return p == PhasePreroll || p == PhaseWork || p == PhaseRest
}
