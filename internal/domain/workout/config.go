package workout

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Input caps applied at ingestion. Larger values are clamped, not rejected.
const (
	MaxRounds  = 99
	MaxSeconds = 999
	MaxMinutes = 999
)

// AMRAPConfig holds AMRAP parameters.
type AMRAPConfig struct {
	Mode         AmrapMode
	TotalMinutes int // Required in both modes
	WorkSeconds  int // Timed only
	RestSeconds  int // Timed only
}

// EMOMConfig holds EMOM parameters.
type EMOMConfig struct {
	Rounds          int
	IntervalSeconds int
}

// TabataConfig holds TABATA parameters.
type TabataConfig struct {
	Rounds      int
	WorkSeconds int
	RestSeconds int
}

// ForTimeConfig holds For-Time parameters.
type ForTimeConfig struct {
	Series      int
	RestSeconds int
}

// TimerConfig is the immutable per-run configuration. Kind selects which
// of the variant fields is meaningful.
type TimerConfig struct {
	Kind    Kind
	Label   string
	AMRAP   AMRAPConfig
	EMOM    EMOMConfig
	Tabata  TabataConfig
	ForTime ForTimeConfig
}

// NewAMRAP creates a validated AMRAP configuration.
func NewAMRAP(mode AmrapMode, totalMinutes, workSeconds, restSeconds int) (TimerConfig, error) {
	return TimerConfig{
		Kind: KindAMRAP,
		AMRAP: AMRAPConfig{
			Mode:         mode,
			TotalMinutes: totalMinutes,
			WorkSeconds:  workSeconds,
			RestSeconds:  restSeconds,
		},
	}.Normalize()
}

// NewEMOM creates a validated EMOM configuration.
func NewEMOM(rounds, intervalSeconds int) (TimerConfig, error) {
	return TimerConfig{
		Kind: KindEMOM,
		EMOM: EMOMConfig{Rounds: rounds, IntervalSeconds: intervalSeconds},
	}.Normalize()
}

// NewTabata creates a validated TABATA configuration.
func NewTabata(rounds, workSeconds, restSeconds int) (TimerConfig, error) {
	return TimerConfig{
		Kind:   KindTabata,
		Tabata: TabataConfig{Rounds: rounds, WorkSeconds: workSeconds, RestSeconds: restSeconds},
	}.Normalize()
}

// NewForTime creates a validated For-Time configuration.
func NewForTime(series, restSeconds int) (TimerConfig, error) {
	return TimerConfig{
		Kind:    KindForTime,
		ForTime: ForTimeConfig{Series: series, RestSeconds: restSeconds},
	}.Normalize()
}

// Normalize validates the configuration and clamps out-of-range values.
// Fields of other variants are zeroed so two equal workouts compare equal.
func (c TimerConfig) Normalize() (TimerConfig, error) {
	out := TimerConfig{Kind: c.Kind, Label: c.Label}
	var err error

	switch c.Kind {
	case KindAMRAP:
		out.AMRAP.Mode = c.AMRAP.Mode
		if out.AMRAP.TotalMinutes, err = positive("total minutes", c.AMRAP.TotalMinutes, MaxMinutes); err != nil {
			return TimerConfig{}, err
		}
		switch c.AMRAP.Mode {
		case AmrapInfinite:
		case AmrapTimed:
			if out.AMRAP.WorkSeconds, err = positive("work seconds", c.AMRAP.WorkSeconds, MaxSeconds); err != nil {
				return TimerConfig{}, err
			}
			if out.AMRAP.RestSeconds, err = positive("rest seconds", c.AMRAP.RestSeconds, MaxSeconds); err != nil {
				return TimerConfig{}, err
			}
		default:
			return TimerConfig{}, errors.Wrapf(ErrInvalidConfig, "unknown amrap mode %d", c.AMRAP.Mode)
		}

	case KindEMOM:
		if out.EMOM.Rounds, err = positive("rounds", c.EMOM.Rounds, MaxRounds); err != nil {
			return TimerConfig{}, err
		}
		if out.EMOM.IntervalSeconds, err = positive("interval seconds", c.EMOM.IntervalSeconds, MaxSeconds); err != nil {
			return TimerConfig{}, err
		}

	case KindTabata:
		if out.Tabata.Rounds, err = positive("rounds", c.Tabata.Rounds, MaxRounds); err != nil {
			return TimerConfig{}, err
		}
		if out.Tabata.WorkSeconds, err = positive("work seconds", c.Tabata.WorkSeconds, MaxSeconds); err != nil {
			return TimerConfig{}, err
		}
		if out.Tabata.RestSeconds, err = positive("rest seconds", c.Tabata.RestSeconds, MaxSeconds); err != nil {
			return TimerConfig{}, err
		}

	case KindForTime:
		if out.ForTime.Series, err = positive("series", c.ForTime.Series, MaxRounds); err != nil {
			return TimerConfig{}, err
		}
		if out.ForTime.RestSeconds, err = positive("rest seconds", c.ForTime.RestSeconds, MaxSeconds); err != nil {
			return TimerConfig{}, err
		}

	default:
		return TimerConfig{}, errors.Wrapf(ErrInvalidConfig, "unknown timer kind %d", c.Kind)
	}

	return out, nil
}

// TotalRounds returns the configured round or series count, or 0 for
// variants without one.
func (c TimerConfig) TotalRounds() int {
	switch c.Kind {
	case KindEMOM:
		return c.EMOM.Rounds
	case KindTabata:
		return c.Tabata.Rounds
	case KindForTime:
		return c.ForTime.Series
	default:
		return 0
	}
}

// TotalActiveSeconds returns the number of active ticks the run lasts.
// The second value is false when the duration depends on user actions.
func (c TimerConfig) TotalActiveSeconds() (int, bool) {
	switch c.Kind {
	case KindAMRAP:
		return c.AMRAP.TotalMinutes * 60, true
	case KindEMOM:
		return c.EMOM.Rounds * c.EMOM.IntervalSeconds, true
	case KindTabata:
		return c.Tabata.Rounds * (c.Tabata.WorkSeconds + c.Tabata.RestSeconds), true
	default:
		return 0, false
	}
}

// String returns a short human-readable summary.
func (c TimerConfig) String() string {
	var s string
	switch c.Kind {
	case KindAMRAP:
		if c.AMRAP.Mode == AmrapTimed {
			s = fmt.Sprintf("AMRAP %dmin (%ds on / %ds off)", c.AMRAP.TotalMinutes, c.AMRAP.WorkSeconds, c.AMRAP.RestSeconds)
		} else {
			s = fmt.Sprintf("AMRAP %dmin", c.AMRAP.TotalMinutes)
		}
	case KindEMOM:
		s = fmt.Sprintf("EMOM %d x %ds", c.EMOM.Rounds, c.EMOM.IntervalSeconds)
	case KindTabata:
		s = fmt.Sprintf("TABATA %d x (%ds / %ds)", c.Tabata.Rounds, c.Tabata.WorkSeconds, c.Tabata.RestSeconds)
	case KindForTime:
		s = fmt.Sprintf("FOR TIME %d series, %ds rest", c.ForTime.Series, c.ForTime.RestSeconds)
	default:
		s = "unknown"
	}
	if c.Label != "" {
		return c.Label + ": " + s
	}
	return s
}

func positive(field string, v, max int) (int, error) {
	if v <= 0 {
		return 0, errors.Wrapf(ErrInvalidConfig, "%s must be a positive number", field)
	}
	return min(v, max), nil
}
