// Package audio plays timer cues.
package audio

import (
	"time"

	"github.com/osa030/wodbox/internal/domain/workout"
)

// Backend plays preloaded cue sounds.
type Backend interface {
	// Preload decodes or synthesizes the sound for c and keeps it in memory.
	Preload(c workout.Cue) error
	// Play starts c without waiting for it to finish. Playing a cue that
	// was never loaded fails with workout.ErrPlayback.
	Play(c workout.Cue) error
	// StopAll silences everything currently playing.
	StopAll() error
	// UnloadAll releases every loaded sound.
	UnloadAll() error
}

// Source describes where a cue sound comes from: an .ogg or .wav file,
// or a synthesized sine tone when File is empty.
type Source struct {
	File     string
	ToneHz   float64
	Duration time.Duration
}

// DefaultSources returns the built-in tone for every cue.
func DefaultSources() map[workout.Cue]Source {
	return map[workout.Cue]Source{
		workout.CueCountdownTick:    {ToneHz: 880, Duration: 150 * time.Millisecond},
		workout.CuePhaseMidpoint:    {ToneHz: 660, Duration: 300 * time.Millisecond},
		workout.CuePhaseFinal:       {ToneHz: 990, Duration: 200 * time.Millisecond},
		workout.CuePhaseComplete:    {ToneHz: 440, Duration: 800 * time.Millisecond},
		workout.CueSequenceComplete: {ToneHz: 523.25, Duration: 1200 * time.Millisecond},
	}
}

// PreloadAll preloads every cue known to the domain.
func PreloadAll(b Backend) error {
	for _, c := range workout.AllCues() {
		if err := b.Preload(c); err != nil {
			return err
		}
	}
	return nil
}
