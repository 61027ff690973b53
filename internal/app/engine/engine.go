// Package engine serializes user commands and clock ticks into the
// active timer run and fans the resulting state out to subscribers.
package engine

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wodbox/internal/app/clock"
	"github.com/osa030/wodbox/internal/app/interval"
	"github.com/osa030/wodbox/internal/app/notification"
	"github.com/osa030/wodbox/internal/app/sequence"
	"github.com/osa030/wodbox/internal/domain/workout"
)

// ErrClosed is returned by every command after Close.
var ErrClosed = errors.New("engine is closed")

// CuePlayer plays cues without blocking the caller.
type CuePlayer interface {
	Request(c workout.Cue) bool
	StopAll()
}

// Hook is called on the engine goroutine with the state that triggered it.
// Hooks must return quickly.
type Hook func(sequence.Snapshot)

// Config holds engine configuration.
type Config struct {
	CommandBuffer int
	OnStarted     Hook
	OnCompleted   Hook
}

type op int

const (
	opStart op = iota
	opStartSequence
	opPause
	opResume
	opTogglePause
	opAdvance
	opReset
	opSnapshot
)

func (o op) String() string {
	switch o {
	case opStart:
		return "start"
	case opStartSequence:
		return "start_sequence"
	case opPause:
		return "pause"
	case opResume:
		return "resume"
	case opTogglePause:
		return "toggle_pause"
	case opAdvance:
		return "advance_phase"
	case opReset:
		return "reset"
	case opSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

type command struct {
	op    op
	cfgs  []workout.TimerConfig
	reply chan result
}

type result struct {
	snap sequence.Snapshot
	err  error
}

// Engine owns one clock driver, at most one run and the cue player.
// All state is mutated by the loop goroutine only.
type Engine struct {
	driver clock.Driver
	player CuePlayer
	notify *notification.Manager
	config Config

	commands chan command
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once

	run run
}

// New creates an engine and starts its loop.
func New(driver clock.Driver, player CuePlayer, config Config) *Engine {
	e := &Engine{
		driver:   driver,
		player:   player,
		notify:   notification.NewManager(),
		config:   config,
		commands: make(chan command, max(config.CommandBuffer, 0)),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go e.loop()
	return e
}

// Start resets any existing run and starts a single timer.
func (e *Engine) Start(cfg workout.TimerConfig) error {
	return e.do(command{op: opStart, cfgs: []workout.TimerConfig{cfg}}).err
}

// StartSequence resets any existing run and starts cfgs back to back.
func (e *Engine) StartSequence(cfgs []workout.TimerConfig) error {
	return e.do(command{op: opStartSequence, cfgs: cfgs}).err
}

// Pause pauses the run.
func (e *Engine) Pause() error {
	return e.do(command{op: opPause}).err
}

// Resume resumes a paused run.
func (e *Engine) Resume() error {
	return e.do(command{op: opResume}).err
}

// TogglePause pauses a running run or resumes a paused one.
func (e *Engine) TogglePause() error {
	return e.do(command{op: opTogglePause}).err
}

// AdvancePhase moves a For-Time or timed AMRAP run to its next phase.
func (e *Engine) AdvancePhase() error {
	return e.do(command{op: opAdvance}).err
}

// Reset stops the clock, drops the run and silences audio.
func (e *Engine) Reset() error {
	return e.do(command{op: opReset}).err
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() sequence.Snapshot {
	r := e.do(command{op: opSnapshot})
	if r.err != nil {
		return idleSnapshot()
	}
	return r.snap
}

// Subscribe registers a subscriber for state notifications.
func (e *Engine) Subscribe(buffer int) (string, <-chan notification.Notification) {
	return e.notify.Subscribe(buffer)
}

// Unsubscribe removes a subscriber and closes its channel.
func (e *Engine) Unsubscribe(id string) {
	e.notify.Unsubscribe(id)
}

// Close stops the loop and the clock and closes every subscription.
func (e *Engine) Close() {
	e.once.Do(func() {
		close(e.quit)
		<-e.done
		e.driver.Stop()
		e.notify.Close()
	})
}

func (e *Engine) do(cmd command) result {
	cmd.reply = make(chan result, 1)

	select {
	case e.commands <- cmd:
	case <-e.done:
		return result{err: ErrClosed}
	}

	select {
	case r := <-cmd.reply:
		return r
	case <-e.done:
		return result{err: ErrClosed}
	}
}

func (e *Engine) loop() {
	defer close(e.done)

	for {
		select {
		case <-e.quit:
			return
		case cmd := <-e.commands:
			cmd.reply <- e.handle(cmd)
		case tick := <-e.driver.Ticks():
			e.handleTick(tick)
		}
	}
}

func (e *Engine) handle(cmd command) result {
	var err error

	switch cmd.op {
	case opStart, opStartSequence:
		err = e.start(cmd.op, cmd.cfgs)
	case opPause:
		err = e.pause()
	case opResume:
		err = e.resume()
	case opTogglePause:
		if e.run != nil && e.run.Paused() {
			err = e.resume()
		} else {
			err = e.pause()
		}
	case opAdvance:
		err = e.advance()
	case opReset:
		e.reset()
		e.publish(notification.EventReset)
	case opSnapshot:
	}

	if errors.Is(err, workout.ErrIllegalTransition) {
		zlog.Debug().Err(err).Str("command", cmd.op.String()).Msg("command ignored")
	}
	return result{snap: e.snapshot(), err: err}
}

func (e *Engine) start(o op, cfgs []workout.TimerConfig) error {
	var next run
	if o == opStartSequence {
		r := sequence.NewRunner()
		if err := r.Start(cfgs); err != nil {
			return err
		}
		next = r
	} else {
		m := interval.NewMachine()
		if err := m.Start(cfgs[0]); err != nil {
			return err
		}
		next = single{m: m}
	}

	e.reset()
	e.run = next
	e.driver.Start()

	snap := e.snapshot()
	e.logRun(zlog.Info(), snap).Strs("timers", describe(cfgs)).Msg("run started")
	e.publish(notification.EventStarted)
	if e.config.OnStarted != nil {
		e.config.OnStarted(snap)
	}
	return nil
}

func (e *Engine) pause() error {
	if e.run == nil {
		return errors.Wrap(workout.ErrIllegalTransition, "no active run")
	}
	if err := e.run.Pause(); err != nil {
		return err
	}
	e.driver.Pause()
	e.publish(notification.EventPaused)
	return nil
}

func (e *Engine) resume() error {
	if e.run == nil {
		return errors.Wrap(workout.ErrIllegalTransition, "no active run")
	}
	if err := e.run.Resume(); err != nil {
		return err
	}
	e.driver.Resume()
	e.publish(notification.EventResumed)
	return nil
}

func (e *Engine) advance() error {
	if e.run == nil {
		return errors.Wrap(workout.ErrIllegalTransition, "no active run")
	}
	out, err := e.run.AdvancePhase()
	if err != nil {
		return err
	}
	e.apply(out)
	return nil
}

// reset stops the driver before clearing state and silencing audio so no
// tick or cue of the old run survives it.
func (e *Engine) reset() {
	e.driver.Stop()
	if e.run != nil {
		e.logRun(zlog.Debug(), e.run.Snapshot()).Msg("run reset")
		e.run.Reset()
		e.run = nil
	}
	e.player.StopAll()
}

func (e *Engine) handleTick(tick clock.Tick) {
	if e.run == nil {
		return
	}
	if gen := e.driver.Generation(); tick.Generation != gen {
		zlog.Debug().
			Uint64("generation", tick.Generation).
			Uint64("current", gen).
			Msg("dropping stale tick")
		return
	}

	out := e.run.Tick(tick.Seq)
	if !out.Applied {
		return
	}
	e.apply(out)
}

// apply dispatches the cue of out and publishes the matching event.
func (e *Engine) apply(out sequence.Outcome) {
	if out.HasCue {
		zlog.Debug().Str("cue", out.Cue.String()).Msg("cue")
		e.player.Request(out.Cue)
	}

	switch {
	case out.Completed:
		e.driver.Stop()
		snap := e.snapshot()
		e.logRun(zlog.Info(), snap).Int("elapsed", snap.ElapsedTotal).Msg("run completed")
		e.publish(notification.EventCompleted)
		if e.config.OnCompleted != nil {
			e.config.OnCompleted(snap)
		}

	case out.Advanced:
		// Each sequence step gets a fresh tick source.
		e.driver.Stop()
		e.driver.Start()
		e.logRun(zlog.Info(), e.snapshot()).Msg("sequence advanced")
		e.publish(notification.EventAdvanced)

	case out.PhaseChanged:
		snap := e.snapshot()
		e.logRun(zlog.Debug(), snap).
			Str("phase", snap.Phase.String()).
			Int("round", snap.Round).
			Msg("phase changed")
		e.publish(notification.EventPhaseChanged)

	default:
		e.publish(notification.EventTick)
	}
}

func (e *Engine) snapshot() sequence.Snapshot {
	if e.run == nil {
		return idleSnapshot()
	}
	return e.run.Snapshot()
}

func (e *Engine) publish(t notification.EventType) {
	e.notify.Broadcast(notification.Notification{Type: t, State: e.snapshot()})
}

func describe(cfgs []workout.TimerConfig) []string {
	out := make([]string, 0, len(cfgs))
	for _, cfg := range cfgs {
		out = append(out, cfg.String())
	}
	return out
}

func (e *Engine) logRun(ev *zerolog.Event, snap sequence.Snapshot) *zerolog.Event {
	ev = ev.Str("run_id", snap.RunID).Str("kind", snap.Kind.String())
	if snap.SequenceID != "" {
		ev = ev.Str("sequence_id", snap.SequenceID).Int("step", snap.Index+1).Int("steps", snap.Count)
	}
	return ev
}
