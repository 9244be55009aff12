//go:build !js
// +build !js

// Command console runs Sky Isle in a terminal with native audio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/simukka/skyisle/audio"
	"github.com/simukka/skyisle/lore"
	"github.com/simukka/skyisle/synth"
)

func main() {
	backendName := flag.String("backend", "", "Audio output: oto, beep or none (default: saved setting, else oto)")
	loreURL := flag.String("lore-url", "", "Fetch lore from a running server instead of calling Gemini directly")
	model := flag.String("model", lore.DefaultModel, "Gemini model used for lore")
	renderPath := flag.String("render", "", "Render the soundscape to a WAV file and exit")
	seconds := flag.Float64("seconds", 30, "Length of the -render output in seconds")
	seed := flag.Uint("seed", 0, "Note seed; 0 picks one per session. A seed logged by an earlier run replays its notes")
	chime := flag.String("select", "", "Building to select one second into a -render")
	logPath := flag.String("log", "skyisle.log", "Log file while the terminal UI is running")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	cfg := audio.LoadConfig()
	if *seed != 0 {
		cfg.Seed = uint32(*seed)
	}

	if *renderPath != "" {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		d := time.Duration(*seconds * float64(time.Second))
		if err := renderOffline(*renderPath, d, *chime, cfg, logger); err != nil {
			logger.Error("render failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "console: stdout is not a terminal; use -render out.wav for offline output")
		os.Exit(2)
	}

	// The screen owns stdout, so logs go to a file
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not read .env", "error", err)
	}

	store := openSettings(logger)
	settings := store.Load(Settings{
		Volume:  cfg.MasterVolume,
		Backend: string(synth.BackendOto),
	})
	if *backendName != "" {
		settings.Backend = *backendName
	}
	backend, err := synth.ParseBackend(settings.Backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(2)
	}
	cfg.MasterVolume = settings.Volume

	var src lore.Source
	if *loreURL != "" {
		src = lore.NewClient(*loreURL, nil, logger)
	} else {
		src = lore.NewServiceFromEnv(context.Background(), *model, lore.WithLogger(logger))
	}

	engine := audio.NewEngine(synth.Opener(backend, synth.DefaultSampleRate), cfg, logger)
	sound := audio.NewSoundscape(engine, audio.WithConfig(cfg), audio.WithLogger(logger))
	defer sound.Close()
	sound.SetMuted(settings.Muted)
	logger.Info("soundscape ready", "backend", backend, "seed", sound.Seed())

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	settings.Backend = string(backend)
	u := newUI(screen, sound, src, store, settings, logger)
	u.run()
	store.Save(u.settings)
}
