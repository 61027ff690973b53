package notification

import "github.com/osa030/wodbox/internal/app/sequence"

// EventType represents an engine event type.
type EventType int

const (
	EventStarted      EventType = iota // A timer or sequence started
	EventTick                          // A tick was applied
	EventPhaseChanged                  // Phase or round changed
	EventPaused                        // Run paused
	EventResumed                       // Run resumed
	EventCompleted                     // Run completed
	EventReset                         // Run reset to idle
	EventAdvanced                      // Sequence moved to its next timer
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventTick:
		return "tick"
	case EventPhaseChanged:
		return "phase_changed"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventCompleted:
		return "completed"
	case EventReset:
		return "reset"
	case EventAdvanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// Notification is a state update delivered to subscribers.
type Notification struct {
	SequenceNo uint64
	Type       EventType
	State      sequence.Snapshot
}
