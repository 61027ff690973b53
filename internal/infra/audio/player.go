package audio

import (
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wodbox/internal/domain/workout"
)

// DefaultQueue is the number of pending cue requests a Player holds.
const DefaultQueue = 8

// Player queues cue requests in front of a Backend and plays them on its
// own goroutine, so callers never wait on audio.
type Player struct {
	backend  Backend
	requests chan workout.Cue
	stopCh   chan chan struct{}
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewPlayer starts a player for backend.
func NewPlayer(backend Backend, queue int) *Player {
	if queue <= 0 {
		queue = DefaultQueue
	}
	p := &Player{
		backend:  backend,
		requests: make(chan workout.Cue, queue),
		stopCh:   make(chan chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Request queues c for playback. It returns false when the queue is full
// or the player is closed and the request was dropped.
func (p *Player) Request(c workout.Cue) bool {
	select {
	case <-p.quit:
		return false
	default:
	}

	select {
	case p.requests <- c:
		return true
	default:
		zlog.Warn().Str("cue", c.String()).Msg("audio queue full, dropping cue")
		return false
	}
}

// StopAll discards pending requests and silences the backend. It returns
// once the backend has been stopped.
func (p *Player) StopAll() {
	ack := make(chan struct{})
	select {
	case p.stopCh <- ack:
		<-ack
	case <-p.done:
	}
}

// Close stops the player goroutine and unloads the backend.
func (p *Player) Close() {
	p.once.Do(func() {
		close(p.quit)
		<-p.done
		if err := p.backend.StopAll(); err != nil {
			zlog.Warn().Err(err).Msg("failed to stop audio")
		}
		if err := p.backend.UnloadAll(); err != nil {
			zlog.Warn().Err(err).Msg("failed to unload audio")
		}
	})
}

func (p *Player) run() {
	defer close(p.done)

	for {
		select {
		case <-p.quit:
			return

		case ack := <-p.stopCh:
			p.drain()
			if err := p.backend.StopAll(); err != nil {
				zlog.Warn().Err(err).Msg("failed to stop audio")
			}
			close(ack)

		case c := <-p.requests:
			if err := p.backend.Play(c); err != nil {
				zlog.Warn().Err(err).Str("cue", c.String()).Msg("playback failed")
			}
		}
	}
}

func (p *Player) drain() {
	for {
		select {
		case c := <-p.requests:
			zlog.Debug().Str("cue", c.String()).Msg("discarding pending cue")
		default:
			return
		}
	}
}
