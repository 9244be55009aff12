package audio

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/simukka/skyisle/colony"
	"github.com/simukka/skyisle/common"
)

// Soundscape ties the engine, the ambient graph, the note sequencer and the
// selection chime together. All methods are safe to call from UI callbacks.
type Soundscape struct {
	engine *Engine
	clock  common.Clock
	random func() float64
	seed   uint32
	cfg    *Config
	log    *slog.Logger

	mu        sync.Mutex
	graph     *Graph
	sequencer *Sequencer
	selection colony.Selection
	muted     bool
	closed    bool
	chimes    int
}

// Option configures a Soundscape.
type Option func(*Soundscape)

// WithClock replaces the real clock, typically with a common.ManualClock.
func WithClock(c common.Clock) Option {
	return func(s *Soundscape) { s.clock = c }
}

// WithRandom replaces the seeded note source. fn must return values in [0, 1).
func WithRandom(fn func() float64) Option {
	return func(s *Soundscape) { s.random = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Soundscape) { s.log = l }
}

// WithConfig overrides the engine's config for the graph and the sounds.
func WithConfig(cfg *Config) Option {
	return func(s *Soundscape) { s.cfg = cfg }
}

// NewSoundscape creates an idle soundscape. Nothing is audible until Interact.
func NewSoundscape(engine *Engine, opts ...Option) *Soundscape {
	s := &Soundscape{
		engine: engine,
		cfg:    engine.cfg,
		log:    engine.log,
		clock:  common.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.random == nil {
		seed := s.cfg.Seed
		if seed == 0 {
			seed = common.SessionSeed(s.clock.Now())
		}
		rng := common.NewSeededRNG(seed)
		s.random = rng.Random
		s.seed = rng.Seed()
		s.log.Debug("sequencer seeded", "seed", s.seed)
	}
	return s
}

// Seed returns the note seed, or 0 when WithRandom supplied the source.
// Rendering again with the same seed reproduces the same notes.
func (s *Soundscape) Seed() uint32 {
	return s.seed
}

// Interact handles a user gesture: initializes and resumes the engine, then
// builds the graph and starts the sequencer the first time around.
func (s *Soundscape) Interact() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if err := s.engine.Init(); err != nil {
		if !errors.Is(err, ErrUnavailable) {
			s.log.Warn("audio init failed", "error", err)
		}
		return
	}
	s.engine.Resume()

	if s.graph != nil {
		return
	}

	ctx := s.engine.Context()
	s.graph = BuildGraph(ctx, s.engine.Master(), s.cfg)
	s.sequencer = NewSequencer(ctx, s.graph.HarpBus, s.clock, s.random, s.cfg)
	s.sequencer.log = s.log
	s.sequencer.Start()

	s.log.Info("soundscape started")
}

// Select marks a building as selected and reports whether the selection
// changed. The chime fires only on a change while the engine is initialized.
func (s *Soundscape) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.selection.Select(id)
	if !changed || s.closed || !s.engine.Initialized() {
		return changed
	}
	PlayChime(s.engine.Context(), s.engine.Master(), s.clock, s.cfg)
	s.chimes++
	return true
}

// Deselect clears the selection without sound.
func (s *Soundscape) Deselect() {
	s.selection.Clear()
}

// Selected returns the selected building id, "" if none.
func (s *Soundscape) Selected() string {
	return s.selection.Current()
}

// SetMuted silences or restores the master gain.
func (s *Soundscape) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.muted = muted
	if muted {
		s.engine.SetVolume(0)
	} else {
		s.engine.SetVolume(s.cfg.MasterVolume)
	}
}

// Muted reports the mute state.
func (s *Soundscape) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Running reports whether the sequencer is scheduling notes.
func (s *Soundscape) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sequencer != nil && s.sequencer.Active()
}

// Notes returns how many notes have been plucked so far.
func (s *Soundscape) Notes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sequencer == nil {
		return 0
	}
	return s.sequencer.Notes()
}

// Chimes returns how many selection chimes have played.
func (s *Soundscape) Chimes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chimes
}

// Close cancels the sequencer, tears down the graph and disposes the engine.
func (s *Soundscape) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.sequencer != nil {
		s.sequencer.Cancel()
	}
	if s.graph != nil {
		s.graph.Dispose()
	}
	return s.engine.Dispose()
}
