package kind

import (
	"github.com/osa030/wodbox/internal/domain/workout"
)

// AMRAPSettings represents the settings of an AMRAP timer.
type AMRAPSettings struct {
	Label   string `mapstructure:"label" validate:"max=64"`
	Mode    string `mapstructure:"mode" default:"infinite" validate:"oneof=infinite timed"`
	Minutes int    `mapstructure:"minutes" validate:"gte=0"`
	Work    int    `mapstructure:"work" validate:"gte=0"`
	Rest    int    `mapstructure:"rest" validate:"gte=0"`
}

// AMRAP builds "as many rounds as possible" timers.
type AMRAP struct{}

func (AMRAP) Name() string {
	return workout.KindAMRAP.String()
}

func (AMRAP) Description() string {
	return "As many rounds as possible within a time cap, optionally split into work/rest intervals"
}

func (AMRAP) Decode(settings map[string]any) (workout.TimerConfig, error) {
	var s AMRAPSettings
	if err := decodeSettings(settings, &s); err != nil {
		return workout.TimerConfig{}, err
	}

	mode, err := workout.ParseAmrapMode(s.Mode)
	if err != nil {
		return workout.TimerConfig{}, err
	}
	cfg, err := workout.NewAMRAP(mode, s.Minutes, s.Work, s.Rest)
	if err != nil {
		return workout.TimerConfig{}, err
	}
	cfg.Label = s.Label
	return cfg, nil
}

func init() {
	Register(workout.KindAMRAP.String(), func() Kind {
		return AMRAP{}
	})
}
