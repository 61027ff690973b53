package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wodbox/internal/domain/workout"
	"github.com/osa030/wodbox/internal/infra/config"
)

func TestTimerBuilders(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (workout.TimerConfig, error)
		want    workout.TimerConfig
		wantErr bool
	}{
		{
			name:  "amrap infinite ignores work and rest",
			build: func() (workout.TimerConfig, error) { return amrapTimer("infinite", "12", "", "") },
			want:  workout.TimerConfig{Kind: workout.KindAMRAP, AMRAP: workout.AMRAPConfig{TotalMinutes: 12}},
		},
		{
			name:  "amrap timed",
			build: func() (workout.TimerConfig, error) { return amrapTimer("timed", "10", "40s", "20s") },
			want: workout.TimerConfig{Kind: workout.KindAMRAP, AMRAP: workout.AMRAPConfig{
				Mode: workout.AmrapTimed, TotalMinutes: 10, WorkSeconds: 40, RestSeconds: 20,
			}},
		},
		{
			name:    "amrap timed needs rest",
			build:   func() (workout.TimerConfig, error) { return amrapTimer("timed", "10", "40", "") },
			wantErr: true,
		},
		{
			name:  "emom clamps rounds",
			build: func() (workout.TimerConfig, error) { return emomTimer("150", "60") },
			want:  workout.TimerConfig{Kind: workout.KindEMOM, EMOM: workout.EMOMConfig{Rounds: workout.MaxRounds, IntervalSeconds: 60}},
		},
		{
			name:    "emom zero rounds",
			build:   func() (workout.TimerConfig, error) { return emomTimer("0", "60") },
			wantErr: true,
		},
		{
			name:    "emom empty interval",
			build:   func() (workout.TimerConfig, error) { return emomTimer("3", "") },
			wantErr: true,
		},
		{
			name:  "tabata",
			build: func() (workout.TimerConfig, error) { return tabataTimer("8", "20", "10") },
			want:  workout.TimerConfig{Kind: workout.KindTabata, Tabata: workout.TabataConfig{Rounds: 8, WorkSeconds: 20, RestSeconds: 10}},
		},
		{
			name:    "fortime letters only",
			build:   func() (workout.TimerConfig, error) { return fortimeTimer("abc", "30") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.build()
			if tt.wantErr {
				assert.ErrorIs(t, err, workout.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMixTimers(t *testing.T) {
	cfg := &config.Config{
		Presets: []config.PresetConfig{
			{Name: "warmup", Kind: "emom", Settings: map[string]any{"rounds": 5}},
			{Name: "finisher", Kind: "tabata"},
		},
		Sequences: []config.SequenceConfig{
			{Name: "day", Steps: []config.StepConfig{{Preset: "warmup"}, {Preset: "finisher"}}},
		},
	}

	timers, err := mixTimers(cfg, "", []string{"finisher", "warmup"})
	require.NoError(t, err)
	require.Len(t, timers, 2)
	assert.Equal(t, workout.KindTabata, timers[0].Kind)
	assert.Equal(t, "warmup", timers[1].Label)

	timers, err = mixTimers(cfg, "day", nil)
	require.NoError(t, err)
	assert.Len(t, timers, 2)

	_, err = mixTimers(cfg, "", nil)
	assert.ErrorIs(t, err, workout.ErrInvalidConfig)
	_, err = mixTimers(cfg, "day", []string{"warmup"})
	assert.ErrorIs(t, err, workout.ErrInvalidConfig)
}

func TestEMOMCommandRequiresInterval(t *testing.T) {
	_, err := app.Parse([]string{"emom", "--rounds", "3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval")

	command, err := app.Parse([]string{"emom", "--rounds", "3", "--interval", "45"})
	require.NoError(t, err)
	assert.Equal(t, emomCmd.FullCommand(), command)
	assert.Equal(t, "45", *emomInterval)
}
