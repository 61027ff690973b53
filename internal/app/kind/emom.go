package kind

import (
	"github.com/osa030/wodbox/internal/domain/workout"
)

// EMOMSettings represents the settings of an EMOM timer.
type EMOMSettings struct {
	Label    string `mapstructure:"label" validate:"max=64"`
	Rounds   int    `mapstructure:"rounds" validate:"gte=0"`
	Interval int    `mapstructure:"interval" default:"60" validate:"gte=0"`
}

// EMOM builds "every minute on the minute" timers.
type EMOM struct{}

func (EMOM) Name() string {
	return workout.KindEMOM.String()
}

func (EMOM) Description() string {
	return "A fixed number of rounds, each starting on a fixed interval"
}

func (EMOM) Decode(settings map[string]any) (workout.TimerConfig, error) {
	var s EMOMSettings
	if err := decodeSettings(settings, &s); err != nil {
		return workout.TimerConfig{}, err
	}

	cfg, err := workout.NewEMOM(s.Rounds, s.Interval)
	if err != nil {
		return workout.TimerConfig{}, err
	}
	cfg.Label = s.Label
	return cfg, nil
}

func init() {
	Register(workout.KindEMOM.String(), func() Kind {
		return EMOM{}
	})
}
