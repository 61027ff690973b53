package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wodbox/internal/app/clock"
	"github.com/osa030/wodbox/internal/app/notification"
	"github.com/osa030/wodbox/internal/app/sequence"
	"github.com/osa030/wodbox/internal/domain/workout"
)

const fireTimeout = time.Second

type recordingPlayer struct {
	mu    sync.Mutex
	cues  []workout.Cue
	stops int
	// driverRunningAtStop records whether the clock was still running
	// when audio was stopped.
	driverRunningAtStop []bool
	driver              clock.Driver
}

func (p *recordingPlayer) Request(c workout.Cue) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cues = append(p.cues, c)
	return true
}

func (p *recordingPlayer) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	p.driverRunningAtStop = append(p.driverRunningAtStop, p.driver.Running())
}

func (p *recordingPlayer) played() []workout.Cue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]workout.Cue(nil), p.cues...)
}

type fixture struct {
	engine *Engine
	clock  *clock.Manual
	player *recordingPlayer
	events <-chan notification.Notification
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()
	manual := clock.NewManual()
	player := &recordingPlayer{driver: manual}
	e := New(manual, player, config)
	t.Cleanup(e.Close)

	_, events := e.Subscribe(1024)
	return &fixture{engine: e, clock: manual, player: player, events: events}
}

func (f *fixture) fire(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.True(t, f.clock.Fire(fireTimeout), "tick %d not delivered", i+1)
	}
}

// drain returns the types of all notifications published so far.
func (f *fixture) drain() []notification.EventType {
	// A snapshot round-trip guarantees earlier broadcasts are buffered.
	f.engine.Snapshot()

	var out []notification.EventType
	for {
		select {
		case n := <-f.events:
			out = append(out, n.Type)
		default:
			return out
		}
	}
}

func mustEMOM(t *testing.T, rounds, interval int) workout.TimerConfig {
	t.Helper()
	cfg, err := workout.NewEMOM(rounds, interval)
	require.NoError(t, err)
	return cfg
}

func TestEngine_Start(t *testing.T) {
	f := newFixture(t, Config{})

	require.NoError(t, f.engine.Start(mustEMOM(t, 3, 60)))
	s := f.engine.Snapshot()
	assert.Equal(t, workout.PhasePreroll, s.Phase)
	assert.Equal(t, workout.PrerollSeconds, s.Seconds)
	assert.Equal(t, 1, s.Count)
	assert.True(t, f.clock.Running())
	assert.Equal(t, []notification.EventType{notification.EventStarted}, f.drain())
}

func TestEngine_StartInvalid(t *testing.T) {
	f := newFixture(t, Config{})

	err := f.engine.Start(workout.TimerConfig{Kind: workout.KindEMOM, EMOM: workout.EMOMConfig{IntervalSeconds: 60}})
	assert.ErrorIs(t, err, workout.ErrInvalidConfig)
	assert.Equal(t, workout.PhaseIdle, f.engine.Snapshot().Phase)
	assert.False(t, f.clock.Running())
	assert.Empty(t, f.drain())

	err = f.engine.StartSequence(nil)
	assert.ErrorIs(t, err, workout.ErrInvalidConfig)
}

func TestEngine_FullRun(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.engine.Start(mustEMOM(t, 1, 10)))

	f.fire(t, workout.PrerollSeconds+10-1)
	assert.Equal(t, workout.PhaseWork, f.engine.Snapshot().Phase)

	f.fire(t, 1)
	s := f.engine.Snapshot()
	assert.Equal(t, workout.PhaseCompleted, s.Phase)
	assert.Equal(t, 10, s.ElapsedTotal)
	assert.False(t, f.clock.Running())
	assert.False(t, f.clock.Fire(10*time.Millisecond))

	assert.Equal(t, []workout.Cue{
		workout.CueCountdownTick,
		workout.CueCountdownTick,
		workout.CueCountdownTick,
		workout.CuePhaseFinal,
		workout.CuePhaseComplete,
	}, f.player.played())

	events := f.drain()
	require.NotEmpty(t, events)
	assert.Equal(t, notification.EventStarted, events[0])
	assert.Equal(t, notification.EventCompleted, events[len(events)-1])
	assert.Contains(t, events, notification.EventPhaseChanged)
	assert.Contains(t, events, notification.EventTick)
}

func TestEngine_PauseResume(t *testing.T) {
	cfg, err := workout.NewTabata(8, 20, 10)
	require.NoError(t, err)

	f := newFixture(t, Config{})
	require.NoError(t, f.engine.Start(cfg))

	assert.ErrorIs(t, f.engine.Pause(), workout.ErrIllegalTransition, "no pause during preroll")
	assert.ErrorIs(t, f.engine.TogglePause(), workout.ErrIllegalTransition)

	f.fire(t, workout.PrerollSeconds+3)
	before := f.engine.Snapshot()

	require.NoError(t, f.engine.TogglePause())
	assert.True(t, f.engine.Snapshot().Paused)
	assert.False(t, f.clock.Running())
	assert.ErrorIs(t, f.engine.Pause(), workout.ErrIllegalTransition)

	require.NoError(t, f.engine.TogglePause())
	after := f.engine.Snapshot()
	assert.Equal(t, before, after)
	assert.True(t, f.clock.Running())

	events := f.drain()
	assert.Contains(t, events, notification.EventPaused)
	assert.Contains(t, events, notification.EventResumed)
}

func TestEngine_Reset(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.engine.Start(mustEMOM(t, 5, 30)))
	f.fire(t, workout.PrerollSeconds+7)

	require.NoError(t, f.engine.Reset())
	s := f.engine.Snapshot()
	assert.Equal(t, workout.PhaseIdle, s.Phase)
	assert.Equal(t, 1, s.Round)
	assert.False(t, f.clock.Running())

	// Start resets once (no run yet: driver idle), Reset once.
	f.player.mu.Lock()
	assert.Equal(t, 2, f.player.stops)
	assert.Equal(t, []bool{false, false}, f.player.driverRunningAtStop)
	f.player.mu.Unlock()

	events := f.drain()
	assert.Equal(t, notification.EventReset, events[len(events)-1])
}

func TestEngine_RestartDropsStaleTicks(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.engine.Start(mustEMOM(t, 5, 30)))
	f.fire(t, 4)

	require.NoError(t, f.engine.Start(mustEMOM(t, 2, 20)))
	before := f.engine.Snapshot()
	assert.Equal(t, workout.PrerollSeconds, before.Seconds)

	require.True(t, f.clock.FireStale(fireTimeout))
	assert.Equal(t, before, f.engine.Snapshot())

	f.fire(t, 1)
	assert.Equal(t, workout.PrerollSeconds-1, f.engine.Snapshot().Seconds)
}

func TestEngine_Sequence(t *testing.T) {
	tabata, err := workout.NewTabata(1, 3, 2)
	require.NoError(t, err)

	f := newFixture(t, Config{})
	require.NoError(t, f.engine.StartSequence([]workout.TimerConfig{mustEMOM(t, 1, 5), tabata}))

	s := f.engine.Snapshot()
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 2, s.Count)
	generation := f.clock.Generation()

	f.fire(t, workout.PrerollSeconds+5)
	s = f.engine.Snapshot()
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, workout.KindTabata, s.Kind)
	assert.Equal(t, workout.PhasePreroll, s.Phase)
	assert.Equal(t, generation+1, f.clock.Generation())
	assert.Contains(t, f.drain(), notification.EventAdvanced)

	f.fire(t, workout.PrerollSeconds+5)
	s = f.engine.Snapshot()
	assert.Equal(t, workout.PhaseCompleted, s.Phase)
	assert.False(t, f.clock.Running())

	played := f.player.played()
	require.NotEmpty(t, played)
	assert.Equal(t, workout.CueSequenceComplete, played[len(played)-1])
	assert.Contains(t, played, workout.CuePhaseComplete)
}

func TestEngine_AdvancePhase(t *testing.T) {
	f := newFixture(t, Config{})

	assert.ErrorIs(t, f.engine.AdvancePhase(), workout.ErrIllegalTransition)

	require.NoError(t, f.engine.Start(mustEMOM(t, 3, 60)))
	f.fire(t, workout.PrerollSeconds+1)
	before := f.engine.Snapshot()
	assert.ErrorIs(t, f.engine.AdvancePhase(), workout.ErrIllegalTransition)
	assert.Equal(t, before, f.engine.Snapshot())

	fortime, err := workout.NewForTime(1, 30)
	require.NoError(t, err)
	require.NoError(t, f.engine.Start(fortime))
	f.fire(t, workout.PrerollSeconds+42)
	f.drain()

	require.NoError(t, f.engine.AdvancePhase())
	s := f.engine.Snapshot()
	assert.Equal(t, workout.PhaseRest, s.Phase)
	assert.Equal(t, 30, s.Seconds)
	assert.Equal(t, []notification.EventType{notification.EventPhaseChanged}, f.drain())

	require.NoError(t, f.engine.AdvancePhase())
	assert.Equal(t, workout.PhaseCompleted, f.engine.Snapshot().Phase)
	assert.False(t, f.clock.Running())
}

func TestEngine_Hooks(t *testing.T) {
	var started, completed []sequence.Snapshot
	f := newFixture(t, Config{
		OnStarted:   func(s sequence.Snapshot) { started = append(started, s) },
		OnCompleted: func(s sequence.Snapshot) { completed = append(completed, s) },
	})

	require.NoError(t, f.engine.Start(mustEMOM(t, 1, 3)))
	f.fire(t, workout.PrerollSeconds+3)
	f.engine.Snapshot()

	require.Len(t, started, 1)
	require.Len(t, completed, 1)
	assert.Equal(t, workout.PhasePreroll, started[0].Phase)
	assert.Equal(t, workout.PhaseCompleted, completed[0].Phase)
	assert.Equal(t, started[0].RunID, completed[0].RunID)
}

func TestEngine_Close(t *testing.T) {
	manual := clock.NewManual()
	e := New(manual, &recordingPlayer{driver: manual}, Config{})
	_, events := e.Subscribe(4)

	require.NoError(t, e.Start(mustEMOM(t, 1, 10)))
	e.Close()
	e.Close()

	assert.ErrorIs(t, e.Start(mustEMOM(t, 1, 10)), ErrClosed)
	assert.ErrorIs(t, e.Pause(), ErrClosed)
	assert.Equal(t, workout.PhaseIdle, e.Snapshot().Phase)
	assert.False(t, manual.Running())

	for range events {
	}
}
