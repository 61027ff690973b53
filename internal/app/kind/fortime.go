package kind

import (
	"github.com/osa030/wodbox/internal/domain/workout"
)

// ForTimeSettings represents the settings of a For-Time timer.
type ForTimeSettings struct {
	Label  string `mapstructure:"label" validate:"max=64"`
	Series int    `mapstructure:"series" validate:"gte=0"`
	Rest   int    `mapstructure:"rest" validate:"gte=0"`
}

// ForTime builds count-up timers where the athlete ends each series.
type ForTime struct{}

func (ForTime) Name() string {
	return workout.KindForTime.String()
}

func (ForTime) Description() string {
	return "Series timed while counting up, each followed by a fixed rest"
}

func (ForTime) Decode(settings map[string]any) (workout.TimerConfig, error) {
	var s ForTimeSettings
	if err := decodeSettings(settings, &s); err != nil {
		return workout.TimerConfig{}, err
	}

	cfg, err := workout.NewForTime(s.Series, s.Rest)
	if err != nil {
		return workout.TimerConfig{}, err
	}
	cfg.Label = s.Label
	return cfg, nil
}

func init() {
	Register(workout.KindForTime.String(), func() Kind {
		return ForTime{}
	})
}
