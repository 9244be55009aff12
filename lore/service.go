package lore

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Generator turns a prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Service generates lore in-process. A nil generator means no credential is
// configured: every request short-circuits to the fallback without a call.
type Service struct {
	gen     Generator
	log     *slog.Logger
	timeout time.Duration
	group   singleflight.Group
	calls   atomic.Int64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

// NewService creates a lore service around gen, which may be nil.
func NewService(gen Generator, opts ...ServiceOption) *Service {
	s := &Service{
		gen:     gen,
		log:     slog.Default(),
		timeout: 20 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether a generator is present.
func (s *Service) Configured() bool {
	return s.gen != nil
}

// Calls returns how many generator calls were made.
func (s *Service) Calls() int64 {
	return s.calls.Load()
}

// Lore returns generated lore or the fallback. Concurrent requests for the
// same building share one generator call.
func (s *Service) Lore(ctx context.Context, req Request) Lore {
	if s.gen == nil {
		s.log.Warn("lore requested without credential", "building", req.ID)
		return Fallback(req, ErrNoCredential)
	}

	key := req.ID
	if key == "" {
		key = req.Name
	}
	// the shared call outlives any single caller; s.timeout bounds it
	shared := context.WithoutCancel(ctx)
	v, err, coalesced := s.group.Do(key, func() (interface{}, error) {
		return s.generate(shared, req)
	})
	if err != nil {
		s.log.Error("lore generation failed", "building", req.ID, "error", err)
		return Fallback(req, err)
	}
	if coalesced {
		s.log.Debug("lore request coalesced", "building", req.ID)
	}
	return v.(Lore)
}

func (s *Service) generate(ctx context.Context, req Request) (Lore, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.calls.Add(1)
	text, err := s.gen.Generate(ctx, Prompt(req))
	if err != nil {
		return Lore{}, err
	}
	return Parse(text)
}
