//go:build !js
// +build !js

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/simukka/skyisle/audio"
	"github.com/simukka/skyisle/colony"
	"github.com/simukka/skyisle/common"
	"github.com/simukka/skyisle/synth"
)

// renderOffline writes d of the soundscape to path without an audio device.
// The scheduling clock is driven by the renderer, so the output is
// deterministic for a fixed seed. When selectID is set, that building is
// selected one second in so the chime is audible.
func renderOffline(path string, d time.Duration, selectID string, cfg *audio.Config, logger *slog.Logger) error {
	if selectID != "" {
		if _, ok := colony.Lookup(selectID); !ok {
			return fmt.Errorf("unknown building %q", selectID)
		}
	}

	clock := common.NewManualClock(time.Unix(0, 0))
	ctx := synth.NewContext(synth.DefaultSampleRate)

	engine := audio.NewEngine(func() (audio.Context, error) { return ctx, nil }, cfg, logger)
	sound := audio.NewSoundscape(engine,
		audio.WithClock(clock),
		audio.WithConfig(cfg),
		audio.WithLogger(logger))
	defer sound.Close()

	sound.Interact()
	if !sound.Running() {
		return fmt.Errorf("soundscape did not start: %w", audio.ErrUnavailable)
	}
	if selectID != "" {
		clock.AfterFunc(time.Second, func() { sound.Select(selectID) })
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := synth.RenderWAV(f, synth.Offline(ctx, clock.Advance), ctx.SampleRate(), d); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	logger.Info("render complete",
		"path", path,
		"duration", d,
		"seed", sound.Seed(),
		"notes", sound.Notes(),
		"chimes", sound.Chimes())
	return f.Close()
}
