package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/simukka/skyisle/common"
)

// Note describes one scheduled pluck.
type Note struct {
	Frequency float64       // Hz
	At        float64       // Context time of the attack
	Next      time.Duration // Gap until the following note
}

// Sequencer plucks random scale notes into a bus at random intervals.
// Runs as a cancellable task: each tick schedules the next one on the clock.
type Sequencer struct {
	ctx    Context
	bus    Node
	clock  common.Clock
	random func() float64
	cfg    *Config
	log    *slog.Logger

	mu      sync.Mutex
	active  bool
	pending common.Timer
	notes   int
	onNote  func(Note)
}

// NewSequencer creates an idle sequencer. random must return values in [0, 1).
func NewSequencer(ctx Context, bus Node, clock common.Clock, random func() float64, cfg *Config) *Sequencer {
	return &Sequencer{
		ctx:    ctx,
		bus:    bus,
		clock:  clock,
		random: random,
		cfg:    cfg,
		log:    slog.Default(),
	}
}

// OnNote registers an observer called for every pluck, under the sequencer
// lock. Must be set before Start.
func (s *Sequencer) OnNote(fn func(Note)) {
	s.mu.Lock()
	s.onNote = fn
	s.mu.Unlock()
}

// Start plays the first note immediately and keeps scheduling until Cancel.
// Starting a running sequencer is a no-op.
func (s *Sequencer) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	s.tick()
}

// Cancel stops scheduling. Notes already playing finish and are released by
// their own leases.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// Active reports whether the sequencer is scheduling notes.
func (s *Sequencer) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Notes returns how many notes have been plucked.
func (s *Sequencer) Notes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

func (s *Sequencer) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A timer that fired while Cancel was waiting for the lock
	if !s.active {
		return
	}

	freq := PickNote(s.random())
	at := s.pluck(freq)
	next := s.nextDelay(s.random())
	s.notes++
	s.log.Debug("pluck", "freq", freq, "at", at, "next", next)

	if s.onNote != nil {
		s.onNote(Note{Frequency: freq, At: at, Next: next})
	}
	s.pending = s.clock.AfterFunc(next, s.tick)
}

// nextDelay maps r in [0, 1] onto [PluckMinDelay, PluckMaxDelay].
func (s *Sequencer) nextDelay(r float64) time.Duration {
	r = clamp01(r)
	span := s.cfg.PluckMaxDelay - s.cfg.PluckMinDelay
	return s.cfg.PluckMinDelay + time.Duration(r*float64(span))
}

// pluck plays a single enveloped note and leases its nodes.
func (s *Sequencer) pluck(freq float64) float64 {
	cfg := s.cfg
	t := s.ctx.CurrentTime()

	osc := s.ctx.CreateOscillator()
	osc.SetType(cfg.PluckWaveform)
	osc.Frequency().SetValueAtTime(freq, t)

	env := s.ctx.CreateGain()
	env.Gain().SetValueAtTime(0, t)
	env.Gain().LinearRampToValueAtTime(cfg.PluckPeak, t+cfg.PluckAttack)
	env.Gain().ExponentialRampToValueAtTime(cfg.PluckFloor, t+cfg.PluckRelease)

	osc.Connect(env)
	env.Connect(s.bus)

	osc.Start(t)
	osc.Stop(t + cfg.PluckStopAfter)

	NewLease(s.clock, cfg.PluckTTL(), osc, env)
	return t
}
