package terminal

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wodbox/internal/app/interval"
	"github.com/osa030/wodbox/internal/app/notification"
	"github.com/osa030/wodbox/internal/app/sequence"
	"github.com/osa030/wodbox/internal/domain/workout"
)

type fakeController struct {
	toggles, advances, resets int
	err                       error
}

func (f *fakeController) TogglePause() error {
	f.toggles++
	return f.err
}

func (f *fakeController) AdvancePhase() error {
	f.advances++
	return f.err
}

func (f *fakeController) Reset() error {
	f.resets++
	return f.err
}

func snapshot(s interval.Snapshot) sequence.Snapshot {
	return sequence.Snapshot{Snapshot: s, Count: 1}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_KeysDriveController(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(ctrl, nil, snapshot(interval.Snapshot{Kind: workout.KindForTime, Phase: workout.PhaseWork, Round: 1}))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)
	cmd()
	_, cmd = m.Update(runes("n"))
	cmd()
	_, cmd = m.Update(runes("r"))
	cmd()

	assert.Equal(t, 1, ctrl.toggles)
	assert.Equal(t, 1, ctrl.advances)
	assert.Equal(t, 1, ctrl.resets)

	_, cmd = m.Update(runes("x"))
	assert.Nil(t, cmd)

	// Next phase is only bound while the run supports it.
	m.Update(updateMsg{State: snapshot(interval.Snapshot{Phase: workout.PhaseIdle, Round: 1})})
	_, cmd = m.Update(runes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, ctrl.advances)
}

func TestModel_ActionErrors(t *testing.T) {
	ctrl := &fakeController{err: errors.Wrap(workout.ErrIllegalTransition, "pause during preroll")}
	m := NewModel(ctrl, nil, sequence.Snapshot{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	msg := cmd()
	m.Update(msg)
	assert.NoError(t, m.err)

	ctrl.err = errors.New("engine is closed")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m.Update(cmd())
	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "engine is closed")
}

func TestModel_Updates(t *testing.T) {
	ch := make(chan notification.Notification, 1)
	m := NewModel(&fakeController{}, ch, sequence.Snapshot{})

	ch <- notification.Notification{
		Type: notification.EventTick,
		State: snapshot(interval.Snapshot{
			Kind: workout.KindTabata, Phase: workout.PhaseWork,
			Seconds: 17, Round: 3, TotalRounds: 8, ElapsedTotal: 63, TotalSeconds: 240,
		}),
	}
	msg := m.Init()()
	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd)

	view := m.View()
	for _, want := range []string{"TABATA", "WORK", "0:17", "Round 3/8", "Elapsed 1:03 / 4:00"} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "next phase")

	close(ch)
	_, cmd = m.Update(waitForUpdate(ch)())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ViewSequenceAndAdvanceHint(t *testing.T) {
	m := NewModel(&fakeController{}, nil, sequence.Snapshot{
		Snapshot: interval.Snapshot{
			Kind: workout.KindForTime, Label: "Row", Phase: workout.PhaseWork,
			Seconds: 75, CountsUp: true, Round: 1, TotalRounds: 3, Paused: true,
		},
		Index: 1,
		Count: 3,
	})

	view := m.View()
	for _, want := range []string{"Row", "FORTIME", "step 2/3", "1:15", "PAUSED", "n next phase"} {
		assert.Contains(t, view, want)
	}
}

func TestModel_ViewHidesAdvanceForFixedKinds(t *testing.T) {
	m := NewModel(&fakeController{}, nil, snapshot(interval.Snapshot{
		Kind: workout.KindTabata, Phase: workout.PhaseWork, Seconds: 20, Round: 1, TotalRounds: 8,
	}))

	view := m.View()
	assert.Contains(t, view, "TABATA")
	assert.NotContains(t, view, "next phase")
}

func TestModel_TitleTruncatedToWidth(t *testing.T) {
	m := NewModel(&fakeController{}, nil, snapshot(interval.Snapshot{
		Kind: workout.KindEMOM, Label: "Murph warmup with a very long name", Phase: workout.PhaseWork, Round: 1,
	}))
	m.Update(tea.WindowSizeMsg{Width: 12, Height: 20})

	title := m.title()
	assert.LessOrEqual(t, len([]rune(title)), 12)
	assert.True(t, strings.HasSuffix(title, "…"))
}
