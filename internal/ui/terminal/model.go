// Package terminal renders engine state in the terminal and maps keys
// to engine commands.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-runewidth"

	"github.com/osa030/wodbox/internal/app/notification"
	"github.com/osa030/wodbox/internal/app/sequence"
	"github.com/osa030/wodbox/internal/domain/workout"
)

// Controller is the subset of the engine the view drives.
type Controller interface {
	TogglePause() error
	AdvancePhase() error
	Reset() error
}

type updateMsg notification.Notification

type closedMsg struct{}

type actionMsg struct {
	err error
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	badgeStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	phaseColours = map[workout.Phase]lipgloss.Color{
		workout.PhaseIdle:      lipgloss.Color("#6E6E6E"),
		workout.PhasePreroll:   lipgloss.Color("#C89A3A"),
		workout.PhaseWork:      lipgloss.Color("#52C41A"),
		workout.PhaseRest:      lipgloss.Color("#1890FF"),
		workout.PhaseCompleted: lipgloss.Color("#FF4D4F"),
	}
)

// Model is the bubbletea model of the timer screen.
type Model struct {
	ctrl    Controller
	updates <-chan notification.Notification
	state   sequence.Snapshot
	keys    keyMap
	help    help.Model
	err     error
	width   int
	height  int
}

// NewModel creates a model showing initial and following updates.
func NewModel(ctrl Controller, updates <-chan notification.Notification, initial sequence.Snapshot) *Model {
	m := &Model{
		ctrl:    ctrl,
		updates: updates,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.setState(initial)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case updateMsg:
		m.setState(msg.State)
		return m, waitForUpdate(m.updates)
	case closedMsg:
		return m, tea.Quit
	case actionMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m, action(m.ctrl.TogglePause)
		case key.Matches(msg, m.keys.Advance):
			return m, action(m.ctrl.AdvancePhase)
		case key.Matches(msg, m.keys.Reset):
			return m, action(m.ctrl.Reset)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.state

	var b strings.Builder
	if title := m.title(); title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
	}

	badge := badgeStyle.Background(phaseColours[s.Phase]).Render(strings.ToUpper(s.Phase.String()))
	b.WriteString(badge)
	if s.Paused {
		b.WriteString(" ")
		b.WriteString(pausedStyle.Render("PAUSED"))
	}
	b.WriteString("\n\n")

	b.WriteString(clockStyle.Render(workout.FormatClock(s.Seconds)))
	b.WriteString("\n\n")

	if progress := m.progress(); progress != "" {
		b.WriteString(progress)
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	content := b.String()
	footer := m.help.View(m.keys)
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) title() string {
	s := m.state
	if s.Phase == workout.PhaseIdle {
		return ""
	}
	title := strings.ToUpper(s.Kind.String())
	if s.Kind == workout.KindAMRAP {
		title += " " + s.Mode.String()
	}
	if s.Label != "" {
		title = s.Label + " · " + title
	}
	if s.Count > 1 {
		title += fmt.Sprintf("  (step %d/%d)", s.Index+1, s.Count)
	}
	if m.width > 0 {
		title = runewidth.Truncate(title, m.width, "…")
	}
	return title
}

func (m *Model) progress() string {
	s := m.state
	if s.Phase == workout.PhaseIdle {
		return ""
	}

	var parts []string
	if s.TotalRounds > 0 {
		parts = append(parts, fmt.Sprintf("Round %d/%d", s.Round, s.TotalRounds))
	}
	elapsed := "Elapsed " + workout.FormatClock(s.ElapsedTotal)
	if s.TotalSeconds > 0 {
		elapsed += " / " + workout.FormatClock(s.TotalSeconds)
	}
	parts = append(parts, elapsed)
	return strings.Join(parts, "   ")
}

func (m *Model) setState(s sequence.Snapshot) {
	m.state = s
	m.keys.Advance.SetEnabled(m.canAdvance())
}

func (m *Model) canAdvance() bool {
	s := m.state
	if s.Phase != workout.PhaseWork && s.Phase != workout.PhaseRest {
		return false
	}
	return s.Kind == workout.KindForTime || (s.Kind == workout.KindAMRAP && s.Mode == workout.AmrapTimed)
}

func waitForUpdate(ch <-chan notification.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return updateMsg(n)
	}
}

// action runs fn off the UI goroutine. Illegal transitions are expected
// from key presses at the wrong moment and are not shown.
func action(fn func() error) tea.Cmd {
	return func() tea.Msg {
		err := fn()
		if errors.Is(err, workout.ErrIllegalTransition) {
			err = nil
		}
		return actionMsg{err: err}
	}
}

// Run shows the timer screen until the user quits or updates is closed.
func Run(ctrl Controller, updates <-chan notification.Notification, initial sequence.Snapshot) error {
	program := tea.NewProgram(NewModel(ctrl, updates, initial), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "terminal ui failed")
	}
	return nil
}
