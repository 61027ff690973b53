package audio

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wodbox/internal/domain/workout"
)

// resampleQuality is passed to beep.Resample for files recorded at a
// different rate than the speaker.
const resampleQuality = 4

// BeepConfig holds speaker settings.
type BeepConfig struct {
	SampleRate int
	Buffer     time.Duration
	Volume     float64 // Exponent of base 2; 0 is unchanged, -1 is half
	Sources    map[workout.Cue]Source
}

// BeepBackend plays cues on the system speaker.
type BeepBackend struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	volume  float64
	sources map[workout.Cue]Source
	buffers map[workout.Cue]*beep.Buffer
}

// NewBeepBackend initializes the speaker.
func NewBeepBackend(cfg BeepConfig) (*BeepBackend, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(cfg.Buffer)); err != nil {
		return nil, errors.Wrapf(workout.ErrPlayback, "failed to initialize speaker: %v", err)
	}

	sources := DefaultSources()
	for c, src := range cfg.Sources {
		sources[c] = src
	}

	zlog.Debug().
		Int("sample_rate", cfg.SampleRate).
		Dur("buffer", cfg.Buffer).
		Float64("volume", cfg.Volume).
		Msg("speaker initialized")

	return &BeepBackend{
		rate:    rate,
		volume:  cfg.Volume,
		sources: sources,
		buffers: make(map[workout.Cue]*beep.Buffer),
	}, nil
}

func (b *BeepBackend) Preload(c workout.Cue) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.buffers[c]; ok {
		return nil
	}

	src, ok := b.sources[c]
	if !ok {
		return errors.Wrapf(workout.ErrPlayback, "no sound configured for cue %s", c)
	}

	buf, err := loadSource(b.rate, src)
	if err != nil {
		return errors.Wrapf(err, "failed to load cue %s", c)
	}
	b.buffers[c] = buf
	return nil
}

func (b *BeepBackend) Play(c workout.Cue) error {
	b.mu.Lock()
	buf, ok := b.buffers[c]
	b.mu.Unlock()
	if !ok {
		return errors.Wrapf(workout.ErrPlayback, "cue %s is not loaded", c)
	}

	speaker.Play(&effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   b.volume,
	})
	return nil
}

func (b *BeepBackend) StopAll() error {
	speaker.Clear()
	return nil
}

func (b *BeepBackend) UnloadAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.buffers)
	return nil
}

// Close unloads everything and shuts the speaker down.
func (b *BeepBackend) Close() error {
	speaker.Clear()
	if err := b.UnloadAll(); err != nil {
		return err
	}
	speaker.Close()
	return nil
}

// loadSource returns an in-memory buffer at rate for src.
func loadSource(rate beep.SampleRate, src Source) (*beep.Buffer, error) {
	if src.File == "" {
		return toneBuffer(rate, src)
	}
	return fileBuffer(rate, src.File)
}

func toneBuffer(rate beep.SampleRate, src Source) (*beep.Buffer, error) {
	if src.ToneHz <= 0 || src.Duration <= 0 {
		return nil, errors.Wrap(workout.ErrPlayback, "tone needs a positive frequency and duration")
	}

	tone, err := generators.SineTone(rate, src.ToneHz)
	if err != nil {
		return nil, errors.Wrapf(workout.ErrPlayback, "failed to create tone: %v", err)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(beep.Take(rate.N(src.Duration), tone))
	return buf, nil
}

func fileBuffer(rate beep.SampleRate, path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(workout.ErrPlayback, "failed to open %s: %v", path, err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		return nil, errors.Wrapf(workout.ErrPlayback, "unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(workout.ErrPlayback, "failed to decode %s: %v", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: format.NumChannels, Precision: format.Precision})
	buf.Append(s)
	return buf, nil
}
