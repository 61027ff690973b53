package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wodbox/internal/domain/workout"
)

func mustConfigs(t *testing.T) []workout.TimerConfig {
	t.Helper()
	emom, err := workout.NewEMOM(2, 5)
	require.NoError(t, err)
	tabata, err := workout.NewTabata(1, 3, 2)
	require.NoError(t, err)
	return []workout.TimerConfig{emom, tabata}
}

func tickN(r *Runner, seq *uint64, n int) Outcome {
	var out Outcome
	for i := 0; i < n; i++ {
		*seq++
		out = r.Tick(*seq)
	}
	return out
}

func TestRunner_StartRejects(t *testing.T) {
	r := NewRunner()

	err := r.Start(nil)
	assert.ErrorIs(t, err, workout.ErrInvalidConfig)

	cfgs := mustConfigs(t)
	cfgs = append(cfgs, workout.TimerConfig{Kind: workout.KindEMOM})
	err = r.Start(cfgs)
	assert.ErrorIs(t, err, workout.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "step 3")
	assert.Equal(t, workout.PhaseIdle, r.Phase())
}

func TestRunner_AdvancesToNextChild(t *testing.T) {
	r := NewRunner()
	require.NoError(t, r.Start(mustConfigs(t)))

	s := r.Snapshot()
	assert.Equal(t, workout.PhasePreroll, s.Phase)
	assert.Equal(t, workout.KindEMOM, s.Kind)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 2, s.Count)
	assert.NotEmpty(t, s.SequenceID)

	var seq uint64
	out := tickN(r, &seq, workout.PrerollSeconds+10-1)
	assert.False(t, out.Advanced)

	out = tickN(r, &seq, 1)
	assert.True(t, out.Advanced)
	assert.False(t, out.Completed)
	assert.True(t, out.PhaseChanged)
	assert.Equal(t, workout.CuePhaseComplete, out.Cue)

	// The second child starts immediately in its preroll.
	s = r.Snapshot()
	assert.Equal(t, workout.PhasePreroll, s.Phase)
	assert.Equal(t, workout.PrerollSeconds, s.Seconds)
	assert.Equal(t, workout.KindTabata, s.Kind)
	assert.Equal(t, 1, s.Index)
}

func TestRunner_CompletesWithSequenceCue(t *testing.T) {
	r := NewRunner()
	require.NoError(t, r.Start(mustConfigs(t)))

	var seq uint64
	tickN(r, &seq, workout.PrerollSeconds+10)
	out := tickN(r, &seq, workout.PrerollSeconds+5-1)
	assert.False(t, out.Completed)

	out = tickN(r, &seq, 1)
	assert.True(t, out.Completed)
	assert.True(t, out.HasCue)
	assert.Equal(t, workout.CueSequenceComplete, out.Cue)

	s := r.Snapshot()
	assert.Equal(t, workout.PhaseCompleted, s.Phase)
	assert.Equal(t, 1, s.Index)
	assert.Nil(t, r.entries)
	assert.Nil(t, r.child)

	out = tickN(r, &seq, 3)
	assert.False(t, out.Applied)
}

func TestRunner_ForwardsActions(t *testing.T) {
	fortime, err := workout.NewForTime(1, 10)
	require.NoError(t, err)
	emom, err := workout.NewEMOM(1, 30)
	require.NoError(t, err)

	r := NewRunner()
	assert.ErrorIs(t, r.Pause(), workout.ErrIllegalTransition)
	_, err = r.AdvancePhase()
	assert.ErrorIs(t, err, workout.ErrIllegalTransition)

	require.NoError(t, r.Start([]workout.TimerConfig{fortime, emom}))
	var seq uint64
	tickN(r, &seq, workout.PrerollSeconds+4)

	require.NoError(t, r.TogglePause())
	assert.True(t, r.Paused())
	assert.True(t, r.Snapshot().Paused)
	require.NoError(t, r.Resume())

	_, err = r.AdvancePhase()
	require.NoError(t, err)
	assert.Equal(t, workout.PhaseRest, r.Phase())

	// Skipping the only rest finishes the first child and moves on.
	out, err := r.AdvancePhase()
	require.NoError(t, err)
	assert.True(t, out.Advanced)
	assert.Equal(t, workout.PhasePreroll, r.Phase())
	assert.Equal(t, workout.KindEMOM, r.Snapshot().Kind)
}

func TestRunner_Reset(t *testing.T) {
	r := NewRunner()
	require.NoError(t, r.Start(mustConfigs(t)))

	var seq uint64
	tickN(r, &seq, workout.PrerollSeconds+12)
	r.Reset()

	s := r.Snapshot()
	assert.Equal(t, workout.PhaseIdle, s.Phase)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, 0, s.Count)
	assert.Empty(t, s.SequenceID)

	out := tickN(r, &seq, 2)
	assert.False(t, out.Applied)
}

func TestRunner_StepThatCannotStartFinishesSequence(t *testing.T) {
	r := NewRunner()
	require.NoError(t, r.Start(mustConfigs(t)))
	// Entries are validated by Start; corrupt one afterwards to force the failure.
	r.entries[1] = workout.TimerConfig{Kind: workout.KindEMOM}

	var seq uint64
	out := tickN(r, &seq, workout.PrerollSeconds+10)
	assert.True(t, out.Completed)
	assert.False(t, out.Advanced)
	assert.Equal(t, workout.CueSequenceComplete, out.Cue)

	s := r.Snapshot()
	assert.Equal(t, workout.PhaseCompleted, s.Phase)
	assert.Equal(t, workout.KindEMOM, s.Kind)
	assert.Equal(t, 0, s.Index)
	assert.Nil(t, r.child)

	out = tickN(r, &seq, 1)
	assert.False(t, out.Applied)
}
