// Package synth renders an audio.Context graph in pure Go, one sample at a
// time, for platforms without Web Audio.
package synth

import (
	"sync"

	"github.com/gopxl/beep"

	"github.com/simukka/skyisle/audio"
)

// DefaultSampleRate is used by the console and offline renders.
const DefaultSampleRate = beep.SampleRate(44100)

// Context is a pull-based audio graph. It implements audio.Context and
// beep.Streamer; whoever pulls samples drives its clock.
type Context struct {
	mu       sync.Mutex
	rate     beep.SampleRate
	frame    int64
	tick     uint64
	state    audio.State
	dest     *Destination
	delays   []*delayProc
	attached map[*node]struct{}
}

// NewContext creates a running context.
func NewContext(rate beep.SampleRate) *Context {
	c := &Context{
		rate:     rate,
		state:    audio.StateRunning,
		attached: make(map[*node]struct{}),
	}
	c.dest = &Destination{node: c.newNode(passProc{})}
	return c
}

// SampleRate of the rendered stream.
func (c *Context) SampleRate() beep.SampleRate {
	return c.rate
}

func (c *Context) now() float64 {
	return float64(c.frame) / float64(c.rate)
}

// CurrentTime is the number of rendered seconds.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

func (c *Context) State() audio.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Suspend pauses the clock; Stream renders silence without advancing time.
func (c *Context) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == audio.StateClosed {
		return audio.ErrClosed
	}
	c.state = audio.StateSuspended
	return nil
}

func (c *Context) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == audio.StateClosed {
		return audio.ErrClosed
	}
	c.state = audio.StateRunning
	return nil
}

// Close ends the stream. Nodes stay valid but render nothing.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = audio.StateClosed
	return nil
}

func (c *Context) Destination() audio.Node {
	return c.dest
}

// NodeCount returns how many nodes currently have outgoing connections.
func (c *Context) NodeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.attached)
}

func (c *Context) newNode(p processor) *node {
	return &node{ctx: c, proc: p, lastTick: ^uint64(0)}
}

func (c *Context) CreateGain() audio.GainNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	g := &gainProc{gain: newParam(c, 1)}
	return &Gain{node: c.newNode(g), proc: g}
}

func (c *Context) CreateOscillator() audio.OscillatorNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	o := &oscProc{
		rate: float64(c.rate),
		wave: audio.Sine,
		freq: newParam(c, 440),
	}
	return &Oscillator{node: c.newNode(o), proc: o}
}

func (c *Context) CreateBiquadFilter() audio.FilterNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := &biquadProc{
		rate: float64(c.rate),
		typ:  audio.Lowpass,
		freq: newParam(c, 350),
		q:    newParam(c, 1),
	}
	return &Filter{node: c.newNode(f), proc: f}
}

// CreateDelay allocates a delay line holding up to maxDelay seconds.
func (c *Context) CreateDelay(maxDelay float64) audio.DelayNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	size := int(maxDelay*float64(c.rate)) + 2
	d := &delayProc{
		rate:      float64(c.rate),
		delayTime: newParam(c, 0),
		buf:       make([]float64, size),
	}
	n := c.newNode(d)
	d.node = n
	c.delays = append(c.delays, d)
	return &Delay{node: n, proc: d}
}

// Stream renders mono output to both channels. A suspended context streams
// silence; a closed one reports the end of the stream.
func (c *Context) Stream(samples [][2]float64) (n int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case audio.StateClosed:
		return 0, false
	case audio.StateSuspended:
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}

	for i := range samples {
		v := softClip(c.renderFrame())
		samples[i][0], samples[i][1] = v, v
	}
	return len(samples), true
}

// Err always returns nil.
func (c *Context) Err() error {
	return nil
}

// renderFrame pulls one sample through the graph, then feeds the delay lines
func (c *Context) renderFrame() float64 {
	c.tick++
	t := c.now()
	v := c.dest.output(t)
	for _, d := range c.delays {
		d.commit(t)
	}
	c.frame++
	return v
}

// softClip limits above 0.8 before a hard clip at 1.
func softClip(v float64) float64 {
	if v > 0.8 {
		v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
	} else if v < -0.8 {
		v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
	}
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return v
}
