package synth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/simukka/skyisle/audio"
)

// Backend names an output sink.
type Backend string

const (
	BackendOto  Backend = "oto"
	BackendBeep Backend = "beep"
	BackendNone Backend = "none"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendOto, BackendBeep, BackendNone:
		return b, nil
	}
	return "", fmt.Errorf("unknown audio backend %q", s)
}

// Sink pulls samples from a context into an output device.
type Sink interface {
	Close() error
}

// Device is a context wired to a sink. Closing it closes both.
type Device struct {
	*Context
	sink Sink
	once sync.Once
}

// Open creates a context and starts pulling it through backend.
func Open(backend Backend, rate beep.SampleRate) (*Device, error) {
	c := NewContext(rate)

	var (
		sink Sink
		err  error
	)
	switch backend {
	case BackendOto:
		sink, err = newOtoSink(c)
	case BackendBeep:
		sink, err = newSpeakerSink(c, 100*time.Millisecond)
	case BackendNone:
		sink = newNullSink(c, 10*time.Millisecond)
	default:
		err = fmt.Errorf("unknown audio backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s output: %w", backend, err)
	}
	return &Device{Context: c, sink: sink}, nil
}

// Opener adapts Open to audio.Opener. Device failures are reported as
// audio.ErrUnavailable so the engine degrades to silence.
func Opener(backend Backend, rate beep.SampleRate) audio.Opener {
	return func() (audio.Context, error) {
		d, err := Open(backend, rate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", audio.ErrUnavailable, err)
		}
		return d, nil
	}
}

// Close stops the sink and closes the context.
func (d *Device) Close() error {
	var err error
	d.once.Do(func() {
		err = d.Context.Close()
		if d.sink != nil {
			err = errors.Join(err, d.sink.Close())
		}
	})
	return err
}

// === BEEP SPEAKER ===

type speakerSink struct{}

func newSpeakerSink(c *Context, buffer time.Duration) (*speakerSink, error) {
	if err := speaker.Init(c.rate, c.rate.N(buffer)); err != nil {
		return nil, err
	}
	speaker.Play(c)
	return &speakerSink{}, nil
}

func (speakerSink) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}

// === OTO ===

// otoSink feeds interleaved float32 stereo straight to oto.
type otoSink struct {
	ctx    *oto.Context
	player *oto.Player
	src    *Context
	buf    [][2]float64
}

func newOtoSink(c *Context) (*otoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(c.rate),
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &otoSink{ctx: ctx, src: c}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Read renders len(p)/8 frames. After the context closes it keeps returning
// silence so the player drains quietly.
func (s *otoSink) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if cap(s.buf) < frames {
		s.buf = make([][2]float64, frames)
	}
	buf := s.buf[:frames]

	n, ok := s.src.Stream(buf)
	if !ok {
		n = 0
	}
	for i := n; i < frames; i++ {
		buf[i] = [2]float64{}
	}

	for i, frame := range buf {
		binary.LittleEndian.PutUint32(p[i*8:], math.Float32bits(float32(frame[0])))
		binary.LittleEndian.PutUint32(p[i*8+4:], math.Float32bits(float32(frame[1])))
	}
	return frames * 8, nil
}

func (s *otoSink) Close() error {
	err := s.player.Close()
	return errors.Join(err, s.ctx.Suspend())
}

// === HEADLESS ===

// nullSink pulls the context in real time and discards the samples, so
// timing behaves as it would with a device attached.
type nullSink struct {
	stop chan struct{}
	done chan struct{}
}

func newNullSink(c *Context, period time.Duration) *nullSink {
	s := &nullSink{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.run(c, period)
	return s
}

func (s *nullSink) run(c *Context, period time.Duration) {
	defer close(s.done)

	buf := make([][2]float64, c.rate.N(period))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if _, ok := c.Stream(buf); !ok {
				return
			}
		}
	}
}

func (s *nullSink) Close() error {
	close(s.stop)
	<-s.done
	return nil
}
