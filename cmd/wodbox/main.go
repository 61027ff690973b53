// Package main provides the wodbox entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wodbox/internal/app/clock"
	"github.com/osa030/wodbox/internal/app/engine"
	"github.com/osa030/wodbox/internal/app/kind"
	"github.com/osa030/wodbox/internal/app/sequence"
	"github.com/osa030/wodbox/internal/domain/workout"
	"github.com/osa030/wodbox/internal/infra/audio"
	"github.com/osa030/wodbox/internal/infra/config"
	"github.com/osa030/wodbox/internal/infra/logger"
	"github.com/osa030/wodbox/internal/ui/terminal"
)

var (
	app        = kingpin.New("wodbox", "Interval timer for AMRAP, EMOM, TABATA and For-Time workouts")
	configPath = app.Flag("config", "Path to config file").Default("wodbox.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file").String()
	mute       = app.Flag("mute", "Do not play audio cues").Bool()
	headless   = app.Flag("headless", "Log progress instead of showing the timer screen").Bool()
	label      = app.Flag("label", "Label shown with the timer").String()

	amrapCmd     = app.Command("amrap", "As many rounds as possible")
	amrapMode    = amrapCmd.Flag("mode", "infinite or timed").Default("infinite").Enum("infinite", "timed")
	amrapMinutes = amrapCmd.Flag("minutes", "Total minutes").Required().String()
	amrapWork    = amrapCmd.Flag("work", "Work seconds (timed mode)").String()
	amrapRest    = amrapCmd.Flag("rest", "Rest seconds (timed mode)").String()

	emomCmd      = app.Command("emom", "Every minute on the minute")
	emomRounds   = emomCmd.Flag("rounds", "Number of rounds").Required().String()
	emomInterval = emomCmd.Flag("interval", "Seconds per round").Required().String()

	tabataCmd    = app.Command("tabata", "Work/rest intervals")
	tabataRounds = tabataCmd.Flag("rounds", "Number of rounds").Default("8").String()
	tabataWork   = tabataCmd.Flag("work", "Work seconds").Default("20").String()
	tabataRest   = tabataCmd.Flag("rest", "Rest seconds").Default("10").String()

	fortimeCmd    = app.Command("fortime", "Series against the clock")
	fortimeSeries = fortimeCmd.Flag("series", "Number of series").Required().String()
	fortimeRest   = fortimeCmd.Flag("rest", "Rest seconds between series").Required().String()

	presetCmd  = app.Command("preset", "Run a preset from the config file")
	presetName = presetCmd.Arg("name", "Preset name").Required().String()

	mixCmd      = app.Command("mix", "Run several timers back to back")
	mixSequence = mixCmd.Arg("sequence", "Sequence name from the config file").String()
	mixSteps    = mixCmd.Flag("step", "Preset to run (repeatable)").Strings()

	listCmd  = app.Command("list", "List configured presets and sequences")
	kindsCmd = app.Command("kinds", "List available timer kinds")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	var configSet bool
	app.GetFlag("config").IsSetByUser(&configSet)

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == kindsCmd.FullCommand() {
		printKinds()
		return
	}

	// An explicit --config must exist; the default path is optional.
	load := config.LoadOrDefault
	if configSet {
		load = config.Load
	}
	cfg, err := load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	if command == listCmd.FullCommand() {
		printList(cfg)
		return
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	} else if !*headless && (loggerConfig.Output == "stdout" || loggerConfig.Output == "stderr" || loggerConfig.Output == "") {
		// The timer screen owns the terminal.
		loggerConfig.Output = "file"
	}
	logCloser, err := logger.Init(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	timers, isSequence, err := timersFor(command, cfg)
	if err != nil {
		if errors.Is(err, workout.ErrInvalidConfig) {
			fmt.Fprintf(os.Stderr, "Invalid timer: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logCloser.Close()
		os.Exit(2)
	}
	if *label != "" && !isSequence {
		timers[0].Label = *label
	}

	if err := run(cfg, timers, isSequence); err != nil {
		zlog.Error().Msgf("wodbox error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logCloser.Close()
		os.Exit(1)
	}
}

// run executes the timer. Using a separate function ensures deferred
// cleanup runs even when returning with an error.
func run(cfg *config.Config, timers []workout.TimerConfig, isSequence bool) error {
	backend, closeBackend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	if err := audio.PreloadAll(backend); err != nil {
		return errors.Wrap(err, "failed to load audio cues")
	}
	player := audio.NewPlayer(backend, cfg.Audio.Queue)
	defer player.Close()

	// Hook output would corrupt the timer screen.
	var hookOut io.Writer = os.Stdout
	if !*headless {
		hookOut = io.Discard
	}
	var hooks sync.WaitGroup
	defer hooks.Wait()

	runHooks := func(commands []string, stage string) engine.Hook {
		if len(commands) == 0 {
			return nil
		}
		return func(s sequence.Snapshot) {
			hooks.Add(1)
			go func() {
				defer hooks.Done()
				executeHooks(commands, stage, s, hookOut)
			}()
		}
	}

	eng := engine.New(clock.NewTicker(cfg.TickInterval()), player, engine.Config{
		CommandBuffer: cfg.Engine.CommandBuffer,
		OnStarted:     runHooks(cfg.Hooks.OnStarted, "on_started"),
		OnCompleted:   runHooks(cfg.Hooks.OnCompleted, "on_completed"),
	})
	defer eng.Close()

	_, updates := eng.Subscribe(cfg.Engine.SubscriberBuffer)

	if isSequence {
		err = eng.StartSequence(timers)
	} else {
		err = eng.Start(timers[0])
	}
	if err != nil {
		return errors.Wrap(err, "failed to start timer")
	}

	if !*headless {
		return terminal.Run(eng, updates, eng.Snapshot())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return runHeadless(ctx, eng, updates)
}

// newBackend picks the speaker backend unless audio is muted or unavailable.
func newBackend(cfg *config.Config) (audio.Backend, func(), error) {
	if *mute || !cfg.AudioEnabled() {
		zlog.Info().Msg("audio muted")
		return audio.NewSilent(), func() {}, nil
	}

	sources := make(map[workout.Cue]audio.Source, len(cfg.Audio.Cues))
	for name, c := range cfg.Audio.Cues {
		sources[workout.Cue(name)] = audio.Source{
			File:     c.File,
			ToneHz:   c.ToneHz,
			Duration: msToDuration(c.DurationMs),
		}
	}

	backend, err := audio.NewBeepBackend(audio.BeepConfig{
		SampleRate: cfg.Audio.SampleRate,
		Buffer:     cfg.AudioBuffer(),
		Volume:     cfg.Audio.Volume,
		Sources:    sources,
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("audio disabled: no sound device")
		return audio.NewSilent(), func() {}, nil
	}
	return backend, func() {
		if err := backend.Close(); err != nil {
			zlog.Warn().Err(err).Msg("failed to close audio")
		}
	}, nil
}

// printKinds prints available timer kinds.
func printKinds() {
	fmt.Println("Available Kinds:")
	for _, name := range kind.Names() {
		k := kind.GetRegistered()[name]()
		fmt.Printf("  %-10s - %s\n", k.Name(), k.Description())
	}
}

// printList prints configured presets and sequences.
func printList(cfg *config.Config) {
	fmt.Println("Presets:")
	presets := append([]config.PresetConfig(nil), cfg.Presets...)
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	for _, p := range presets {
		timer, err := cfg.Preset(p.Name)
		if err != nil {
			fmt.Printf("  %-20s - invalid: %v\n", p.Name, err)
			continue
		}
		fmt.Printf("  %-20s - %s\n", p.Name, timer)
	}

	fmt.Println("Sequences:")
	for _, s := range cfg.Sequences {
		timers, err := cfg.Sequence(s.Name)
		if err != nil {
			fmt.Printf("  %-20s - invalid: %v\n", s.Name, err)
			continue
		}
		fmt.Printf("  %-20s - %d steps\n", s.Name, len(timers))
		for i, timer := range timers {
			fmt.Printf("      %d. %s\n", i+1, timer)
		}
	}
}
