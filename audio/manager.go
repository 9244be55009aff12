package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Engine owns the output context and the master gain.
// Browsers only allow audio after a user gesture, so nothing is opened until
// the first Init.
type Engine struct {
	mu          sync.Mutex
	open        Opener
	cfg         *Config
	log         *slog.Logger
	ctx         Context
	masterGain  GainNode
	volume      float64
	initialized bool
	unavailable bool
	closed      bool
}

// NewEngine creates an engine that opens its context with open.
func NewEngine(open Opener, cfg *Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		open:   open,
		cfg:    cfg,
		log:    logger,
		volume: cfg.MasterVolume,
	}
}

// Init opens the context and wires the master gain to the destination.
// Calling it again is a no-op. When the platform has no audio the failure is
// logged once and every later call returns ErrUnavailable without retrying.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.initialized {
		return nil
	}
	if e.unavailable {
		return ErrUnavailable
	}
	if !e.cfg.Enabled || e.open == nil {
		e.unavailable = true
		e.log.Info("audio disabled")
		return ErrUnavailable
	}

	ctx, err := e.openContext()
	if err == nil && ctx == nil {
		err = ErrUnavailable
	}
	if err != nil {
		e.unavailable = true
		e.log.Warn("audio unavailable, continuing silently", "error", err)
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	e.ctx = ctx
	e.masterGain = ctx.CreateGain()
	e.masterGain.Connect(ctx.Destination())
	e.masterGain.Gain().SetValue(e.volume)
	e.initialized = true

	e.log.Debug("audio engine initialized", "state", ctx.State(), "volume", e.volume)
	return nil
}

// openContext calls the opener, turning a panic from a platform binding into
// an error so a broken backend degrades like a missing one.
func (e *Engine) openContext() (ctx Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx, err = nil, fmt.Errorf("%w: open panicked: %v", ErrUnavailable, r)
		}
	}()
	return e.open()
}

// Resume wakes a suspended context. No-op if the engine is not initialized or
// the context is already running.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.ctx.State() != StateSuspended {
		return
	}
	if err := e.ctx.Resume(); err != nil {
		e.log.Warn("audio resume failed", "error", err)
	}
}

// SetVolume sets the master volume (0.0 to 1.0). Applied on Init if the
// engine is not initialized yet.
func (e *Engine) SetVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volume = clamp01(volume)
	if e.masterGain != nil {
		e.masterGain.Gain().SetValue(e.volume)
	}
}

// Volume returns the current master volume.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Dispose releases the context. The engine cannot be initialized again.
func (e *Engine) Dispose() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.initialized = false
	if e.ctx == nil {
		return nil
	}

	e.masterGain.Disconnect()
	err := e.ctx.Close()
	e.ctx = nil
	e.masterGain = nil
	if err != nil {
		return fmt.Errorf("close audio context: %w", err)
	}
	return nil
}

// Initialized reports whether Init succeeded and Dispose has not run.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// Context returns the output context, nil before Init.
func (e *Engine) Context() Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// Master returns the master gain, nil before Init.
func (e *Engine) Master() GainNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.masterGain
}
