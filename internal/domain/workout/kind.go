// Package workout provides the interval-timer domain types: timer
// configurations, phases and audio cue identifiers.
package workout

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind identifies a timer variant.
type Kind int

const (
	KindAMRAP   Kind = iota // As many rounds as possible
	KindEMOM                // Every minute on the minute
	KindTabata              // Work/rest intervals
	KindForTime             // Series against the clock
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAMRAP:
		return "amrap"
	case KindEMOM:
		return "emom"
	case KindTabata:
		return "tabata"
	case KindForTime:
		return "fortime"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name. Separators and case are ignored, so
// "For Time", "for-time" and "FORTIME" are all accepted.
func ParseKind(s string) (Kind, error) {
	normalized := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
	switch normalized {
	case "amrap":
		return KindAMRAP, nil
	case "emom":
		return KindEMOM, nil
	case "tabata":
		return KindTabata, nil
	case "fortime":
		return KindForTime, nil
	default:
		return 0, errors.Wrapf(ErrInvalidConfig, "unknown timer kind %q", s)
	}
}

// AmrapMode selects between the two AMRAP flavours.
type AmrapMode int

const (
	AmrapInfinite AmrapMode = iota // One long work phase
	AmrapTimed                     // Work/rest alternation bounded by a total duration
)

// String returns the string representation of the mode.
func (m AmrapMode) String() string {
	switch m {
	case AmrapInfinite:
		return "infinite"
	case AmrapTimed:
		return "timed"
	default:
		return "unknown"
	}
}

// ParseAmrapMode parses an AMRAP mode name.
func ParseAmrapMode(s string) (AmrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "infinite", "":
		return AmrapInfinite, nil
	case "timed":
		return AmrapTimed, nil
	default:
		return 0, errors.Wrapf(ErrInvalidConfig, "unknown amrap mode %q", s)
	}
}
