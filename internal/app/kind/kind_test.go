package kind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wodbox/internal/domain/workout"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"amrap", "emom", "fortime", "tabata"}, Names())

	for name, factory := range GetRegistered() {
		k := factory()
		assert.Equal(t, name, k.Name())
		assert.NotEmpty(t, k.Description())
	}
}

func TestLookup(t *testing.T) {
	k, err := Lookup("For-Time")
	require.NoError(t, err)
	assert.Equal(t, "fortime", k.Name())

	_, err = Lookup("crossfit")
	assert.ErrorIs(t, err, workout.ErrInvalidConfig)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		settings map[string]any
		want     workout.TimerConfig
		wantErr  bool
	}{
		{
			name:     "amrap defaults to infinite",
			kind:     "amrap",
			settings: map[string]any{"minutes": 12},
			want: workout.TimerConfig{
				Kind:  workout.KindAMRAP,
				AMRAP: workout.AMRAPConfig{Mode: workout.AmrapInfinite, TotalMinutes: 12},
			},
		},
		{
			name:     "amrap timed",
			kind:     "amrap",
			settings: map[string]any{"mode": "timed", "minutes": 20, "work": 40, "rest": 20, "label": "Engine"},
			want: workout.TimerConfig{
				Kind:  workout.KindAMRAP,
				Label: "Engine",
				AMRAP: workout.AMRAPConfig{Mode: workout.AmrapTimed, TotalMinutes: 20, WorkSeconds: 40, RestSeconds: 20},
			},
		},
		{
			name:     "emom interval default",
			kind:     "emom",
			settings: map[string]any{"rounds": 10},
			want: workout.TimerConfig{
				Kind: workout.KindEMOM,
				EMOM: workout.EMOMConfig{Rounds: 10, IntervalSeconds: 60},
			},
		},
		{
			name:     "emom string values",
			kind:     "emom",
			settings: map[string]any{"rounds": "5", "interval": "90"},
			want: workout.TimerConfig{
				Kind: workout.KindEMOM,
				EMOM: workout.EMOMConfig{Rounds: 5, IntervalSeconds: 90},
			},
		},
		{
			name:     "tabata classic defaults",
			kind:     "tabata",
			settings: map[string]any{},
			want: workout.TimerConfig{
				Kind:   workout.KindTabata,
				Tabata: workout.TabataConfig{Rounds: 8, WorkSeconds: 20, RestSeconds: 10},
			},
		},
		{
			name:     "tabata clamps rounds",
			kind:     "tabata",
			settings: map[string]any{"rounds": 500},
			want: workout.TimerConfig{
				Kind:   workout.KindTabata,
				Tabata: workout.TabataConfig{Rounds: workout.MaxRounds, WorkSeconds: 20, RestSeconds: 10},
			},
		},
		{
			name:     "fortime",
			kind:     "fortime",
			settings: map[string]any{"series": 3, "rest": 120},
			want: workout.TimerConfig{
				Kind:    workout.KindForTime,
				ForTime: workout.ForTimeConfig{Series: 3, RestSeconds: 120},
			},
		},
		{
			name:     "missing required value",
			kind:     "emom",
			settings: map[string]any{"interval": 60},
			wantErr:  true,
		},
		{
			name:     "emom explicit zero interval",
			kind:     "emom",
			settings: map[string]any{"rounds": 3, "interval": 0},
			wantErr:  true,
		},
		{
			name:     "tabata explicit zero work",
			kind:     "tabata",
			settings: map[string]any{"work": 0},
			wantErr:  true,
		},
		{
			name:     "tabata explicit zero rounds as string",
			kind:     "tabata",
			settings: map[string]any{"rounds": "0"},
			wantErr:  true,
		},
		{
			name:     "unknown mode",
			kind:     "amrap",
			settings: map[string]any{"mode": "forever", "minutes": 10},
			wantErr:  true,
		},
		{
			name:     "negative value",
			kind:     "fortime",
			settings: map[string]any{"series": 3, "rest": -5},
			wantErr:  true,
		},
		{
			name:     "unknown setting",
			kind:     "emom",
			settings: map[string]any{"rounds": 3, "intervall": 60},
			wantErr:  true,
		},
		{
			name:     "timed amrap without rest",
			kind:     "amrap",
			settings: map[string]any{"mode": "timed", "minutes": 10, "work": 30},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.kind, tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, workout.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
