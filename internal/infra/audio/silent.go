package audio

import (
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wodbox/internal/domain/workout"
)

// Silent is a backend that only logs cues. It is used when audio is
// muted or no sound device is available.
type Silent struct {
	mu     sync.Mutex
	loaded map[workout.Cue]struct{}
}

// NewSilent creates a silent backend.
func NewSilent() *Silent {
	return &Silent{loaded: make(map[workout.Cue]struct{})}
}

func (s *Silent) Preload(c workout.Cue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded[c] = struct{}{}
	return nil
}

func (s *Silent) Play(c workout.Cue) error {
	s.mu.Lock()
	_, ok := s.loaded[c]
	s.mu.Unlock()
	if !ok {
		return errors.Wrapf(workout.ErrPlayback, "cue %s is not loaded", c)
	}
	zlog.Debug().Str("cue", c.String()).Msg("cue (muted)")
	return nil
}

func (s *Silent) StopAll() error {
	return nil
}

func (s *Silent) UnloadAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.loaded)
	return nil
}
