// Package config provides configuration loading from YAML files.
package config

import (
	"io/fs"
	"maps"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/wodbox/internal/app/kind"
	"github.com/osa030/wodbox/internal/domain/workout"
)

// Environment variables that override file values.
const (
	EnvLogLevel     = "WODBOX_LOG_LEVEL"
	EnvAudioEnabled = "WODBOX_AUDIO_ENABLED"
	EnvAudioVolume  = "WODBOX_AUDIO_VOLUME"
)

// Config represents the application configuration.
type Config struct {
	Log       LogConfig        `yaml:"log"`
	Clock     ClockConfig      `yaml:"clock"`
	Audio     AudioConfig      `yaml:"audio"`
	Engine    EngineConfig     `yaml:"engine"`
	Hooks     HooksConfig      `yaml:"hooks"`
	Presets   []PresetConfig   `yaml:"presets" validate:"dive"`
	Sequences []SequenceConfig `yaml:"sequences" validate:"dive"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" default:"stderr"` // "stdout", "stderr", "file" or "none"
	File   string `yaml:"file" default:"wodbox.log"`
}

// ClockConfig represents tick source configuration.
type ClockConfig struct {
	TickIntervalMs int `yaml:"tick_interval_ms" default:"1000" validate:"gte=10,lte=10000"`
}

// AudioConfig represents cue playback configuration.
type AudioConfig struct {
	Enabled    *bool                `yaml:"enabled" default:"true"`
	SampleRate int                  `yaml:"sample_rate" default:"44100" validate:"oneof=8000 11025 16000 22050 32000 44100 48000"`
	BufferMs   int                  `yaml:"buffer_ms" default:"100" validate:"gte=10,lte=1000"`
	Volume     float64              `yaml:"volume" validate:"gte=-10,lte=2"`
	Queue      int                  `yaml:"queue" default:"8" validate:"gte=1,lte=256"`
	Cues       map[string]CueConfig `yaml:"cues" validate:"dive,keys,oneof=countdown-tick phase-midpoint phase-final-seconds phase-complete sequence-complete,endkeys"`
}

// CueConfig overrides the sound of a single cue. File wins over the tone.
type CueConfig struct {
	File       string  `yaml:"file"`
	ToneHz     float64 `yaml:"tone_hz" validate:"gte=0,lte=20000"`
	DurationMs int     `yaml:"duration_ms" validate:"gte=0,lte=10000"`
}

// EngineConfig represents engine loop configuration.
type EngineConfig struct {
	CommandBuffer    int `yaml:"command_buffer" default:"8" validate:"gte=0,lte=1024"`
	SubscriberBuffer int `yaml:"subscriber_buffer" default:"16" validate:"gte=1,lte=4096"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted   []string `yaml:"on_started"`
	OnCompleted []string `yaml:"on_completed"`
}

// PresetConfig is a named timer.
type PresetConfig struct {
	Name     string         `yaml:"name" validate:"required"`
	Kind     string         `yaml:"kind" validate:"required"`
	Label    string         `yaml:"label"`
	Settings map[string]any `yaml:"settings"`
}

// SequenceConfig is a named list of timers run back to back.
type SequenceConfig struct {
	Name  string       `yaml:"name" validate:"required"`
	Steps []StepConfig `yaml:"steps" validate:"required,min=1,dive"`
}

// StepConfig references a preset or defines a timer inline.
type StepConfig struct {
	Preset   string         `yaml:"preset" validate:"required_without=Kind,excluded_with=Kind"`
	Kind     string         `yaml:"kind" validate:"required_without=Preset"`
	Settings map[string]any `yaml:"settings"`
}

// Default returns the configuration used when no file is present.
func Default() (*Config, error) {
	return finish(&Config{})
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return finish(&cfg)
}

// LoadOrDefault behaves like Load but falls back to Default when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return cfg, err
}

func finish(cfg *Config) (*Config, error) {
	// Override with environment variables
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}

	// Set defaults using creasty/defaults
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvAudioEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvAudioEnabled)
		}
		c.Audio.Enabled = &enabled
	}
	if v := os.Getenv(EnvAudioVolume); v != "" {
		volume, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvAudioVolume)
		}
		c.Audio.Volume = volume
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if err := c.validateNames(); err != nil {
		return err
	}

	// Every preset and sequence must resolve to valid timers.
	for _, p := range c.Presets {
		if _, err := c.Preset(p.Name); err != nil {
			return err
		}
	}
	for _, s := range c.Sequences {
		if _, err := c.Sequence(s.Name); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateNames() error {
	seen := make(map[string]bool, len(c.Presets))
	for _, p := range c.Presets {
		if seen[p.Name] {
			return errors.Newf("duplicate preset name %q", p.Name)
		}
		seen[p.Name] = true
	}

	seen = make(map[string]bool, len(c.Sequences))
	for _, s := range c.Sequences {
		if seen[s.Name] {
			return errors.Newf("duplicate sequence name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// AudioEnabled reports whether cues should be played.
func (c *Config) AudioEnabled() bool {
	return c.Audio.Enabled == nil || *c.Audio.Enabled
}

// TickInterval returns the clock interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Clock.TickIntervalMs) * time.Millisecond
}

// AudioBuffer returns the speaker buffer length.
func (c *Config) AudioBuffer() time.Duration {
	return time.Duration(c.Audio.BufferMs) * time.Millisecond
}

// Preset resolves the named preset into a timer configuration.
func (c *Config) Preset(name string) (workout.TimerConfig, error) {
	for _, p := range c.Presets {
		if p.Name != name {
			continue
		}

		settings := maps.Clone(p.Settings)
		if settings == nil {
			settings = make(map[string]any)
		}
		if _, ok := settings["label"]; !ok {
			label := p.Label
			if label == "" {
				label = p.Name
			}
			settings["label"] = label
		}

		cfg, err := kind.Decode(p.Kind, settings)
		if err != nil {
			return workout.TimerConfig{}, errors.Wrapf(err, "preset %q", name)
		}
		return cfg, nil
	}
	return workout.TimerConfig{}, errors.Wrapf(workout.ErrInvalidConfig, "preset %q not found", name)
}

// Sequence resolves the named sequence into its timer configurations.
func (c *Config) Sequence(name string) ([]workout.TimerConfig, error) {
	for _, s := range c.Sequences {
		if s.Name != name {
			continue
		}

		cfgs := make([]workout.TimerConfig, 0, len(s.Steps))
		for i, step := range s.Steps {
			var (
				cfg workout.TimerConfig
				err error
			)
			if step.Preset != "" {
				cfg, err = c.Preset(step.Preset)
			} else {
				cfg, err = kind.Decode(step.Kind, step.Settings)
			}
			if err != nil {
				return nil, errors.Wrapf(err, "sequence %q step %d", name, i+1)
			}
			cfgs = append(cfgs, cfg)
		}
		return cfgs, nil
	}
	return nil, errors.Wrapf(workout.ErrInvalidConfig, "sequence %q not found", name)
}
