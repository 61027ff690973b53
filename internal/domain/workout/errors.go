package workout

import "github.com/cockroachdb/errors"

// Errors
var (
	// ErrInvalidConfig is returned when a required field is missing, zero or not numeric.
	ErrInvalidConfig = errors.New("invalid timer config")
	// ErrIllegalTransition is returned when an action is not accepted in the current state.
	// Callers treat it as a no-op.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrPlayback is returned by audio backends when a cue cannot be played.
	ErrPlayback = errors.New("playback failed")
)
