package kind

import (
	"github.com/osa030/wodbox/internal/domain/workout"
)

// TabataSettings represents the settings of a TABATA timer. The defaults
// are the classic 8 rounds of 20s work and 10s rest.
type TabataSettings struct {
	Label  string `mapstructure:"label" validate:"max=64"`
	Rounds int    `mapstructure:"rounds" default:"8" validate:"gte=0"`
	Work   int    `mapstructure:"work" default:"20" validate:"gte=0"`
	Rest   int    `mapstructure:"rest" default:"10" validate:"gte=0"`
}

// Tabata builds alternating work/rest timers.
type Tabata struct{}

func (Tabata) Name() string {
	return workout.KindTabata.String()
}

func (Tabata) Description() string {
	return "Rounds of fixed work followed by fixed rest"
}

func (Tabata) Decode(settings map[string]any) (workout.TimerConfig, error) {
	var s TabataSettings
	if err := decodeSettings(settings, &s); err != nil {
		return workout.TimerConfig{}, err
	}

	cfg, err := workout.NewTabata(s.Rounds, s.Work, s.Rest)
	if err != nil {
		return workout.TimerConfig{}, err
	}
	cfg.Label = s.Label
	return cfg, nil
}

func init() {
	Register(workout.KindTabata.String(), func() Kind {
		return Tabata{}
	})
}
