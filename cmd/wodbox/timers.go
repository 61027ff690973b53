package main

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/wodbox/internal/domain/workout"
	"github.com/osa030/wodbox/internal/infra/config"
)

// timersFor builds the timers selected on the command line. The second
// value reports whether they form a sequence.
func timersFor(command string, cfg *config.Config) ([]workout.TimerConfig, bool, error) {
	var (
		timer workout.TimerConfig
		err   error
	)

	switch command {
	case amrapCmd.FullCommand():
		timer, err = amrapTimer(*amrapMode, *amrapMinutes, *amrapWork, *amrapRest)
	case emomCmd.FullCommand():
		timer, err = emomTimer(*emomRounds, *emomInterval)
	case tabataCmd.FullCommand():
		timer, err = tabataTimer(*tabataRounds, *tabataWork, *tabataRest)
	case fortimeCmd.FullCommand():
		timer, err = fortimeTimer(*fortimeSeries, *fortimeRest)
	case presetCmd.FullCommand():
		timer, err = cfg.Preset(*presetName)
	case mixCmd.FullCommand():
		timers, err := mixTimers(cfg, *mixSequence, *mixSteps)
		return timers, true, err
	default:
		return nil, false, errors.Newf("unknown command %q", command)
	}

	if err != nil {
		return nil, false, err
	}
	return []workout.TimerConfig{timer}, false, nil
}

func amrapTimer(mode, minutes, work, rest string) (workout.TimerConfig, error) {
	m, err := workout.ParseAmrapMode(mode)
	if err != nil {
		return workout.TimerConfig{}, err
	}
	total, err := workout.ParseInput(minutes, workout.MaxMinutes)
	if err != nil {
		return workout.TimerConfig{}, errors.Wrap(err, "--minutes")
	}

	var w, r int
	if m == workout.AmrapTimed {
		if w, err = workout.ParseInput(work, workout.MaxSeconds); err != nil {
			return workout.TimerConfig{}, errors.Wrap(err, "--work")
		}
		if r, err = workout.ParseInput(rest, workout.MaxSeconds); err != nil {
			return workout.TimerConfig{}, errors.Wrap(err, "--rest")
		}
	}
	return workout.NewAMRAP(m, total, w, r)
}

func emomTimer(rounds, interval string) (workout.TimerConfig, error) {
	n, err := workout.ParseInput(rounds, workout.MaxRounds)
	if err != nil {
		return workout.TimerConfig{}, errors.Wrap(err, "--rounds")
	}
	sec, err := workout.ParseInput(interval, workout.MaxSeconds)
	if err != nil {
		return workout.TimerConfig{}, errors.Wrap(err, "--interval")
	}
	return workout.NewEMOM(n, sec)
}

func tabataTimer(rounds, work, rest string) (workout.TimerConfig, error) {
	n, err := workout.ParseInput(rounds, workout.MaxRounds)
	if err != nil {
		return workout.TimerConfig{}, errors.Wrap(err, "--rounds")
	}
	w, err := workout.ParseInput(work, workout.MaxSeconds)
	if err != nil {
		return workout.TimerConfig{}, errors.Wrap(err, "--work")
	}
	r, err := workout.ParseInput(rest, workout.MaxSeconds)
	if err != nil {
		return workout.TimerConfig{}, errors.Wrap(err, "--rest")
	}
	return workout.NewTabata(n, w, r)
}

func fortimeTimer(series, rest string) (workout.TimerConfig, error) {
	n, err := workout.ParseInput(series, workout.MaxRounds)
	if err != nil {
		return workout.TimerConfig{}, errors.Wrap(err, "--series")
	}
	r, err := workout.ParseInput(rest, workout.MaxSeconds)
	if err != nil {
		return workout.TimerConfig{}, errors.Wrap(err, "--rest")
	}
	return workout.NewForTime(n, r)
}

// mixTimers resolves a configured sequence, or an ad-hoc list of presets.
func mixTimers(cfg *config.Config, sequenceName string, presets []string) ([]workout.TimerConfig, error) {
	switch {
	case sequenceName != "" && len(presets) > 0:
		return nil, errors.Wrap(workout.ErrInvalidConfig, "use either a sequence name or --step, not both")
	case sequenceName != "":
		return cfg.Sequence(sequenceName)
	case len(presets) == 0:
		return nil, errors.Wrap(workout.ErrInvalidConfig, "mix needs a sequence name or at least one --step")
	}

	timers := make([]workout.TimerConfig, 0, len(presets))
	for _, name := range presets {
		timer, err := cfg.Preset(name)
		if err != nil {
			return nil, err
		}
		timers = append(timers, timer)
	}
	return timers, nil
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
