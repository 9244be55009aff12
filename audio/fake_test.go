package audio

import (
	"sync"
	"time"

	"github.com/simukka/skyisle/common"
)

// fakeContext records every node and automation call so tests can assert on
// the shape of the graph. Its time follows a ManualClock.
type fakeContext struct {
	mu      sync.Mutex
	clock   *common.ManualClock
	start   time.Time
	state   State
	dest    *fakeNode
	nodes   []*fakeNode
	resumes int
	closes  int
}

type paramEvent struct {
	kind  string
	value float64
	time  float64
}

type fakeParam struct {
	mu     sync.Mutex
	value  float64
	events []paramEvent
}

type fakeNode struct {
	ctx         *fakeContext
	kind        string
	waveform    Waveform
	filterType  FilterType
	maxDelay    float64
	outputs     []*fakeNode
	disconnects int
	startAt     float64
	stopAt      float64
	started     bool
	stopped     bool
	gain        *fakeParam
	frequency   *fakeParam
	q           *fakeParam
	delayTime   *fakeParam
}

type fakeGain struct{ *fakeNode }
type fakeOsc struct{ *fakeNode }
type fakeFilter struct{ *fakeNode }
type fakeDelay struct{ *fakeNode }

func newFakeContext(clock *common.ManualClock) *fakeContext {
	c := &fakeContext{
		clock: clock,
		start: clock.Now(),
		state: StateSuspended,
	}
	c.dest = &fakeNode{ctx: c, kind: "destination"}
	return c
}

// opener returns an Opener that counts how often it was called.
func (c *fakeContext) opener(calls *int) Opener {
	return func() (Context, error) {
		*calls++
		return c, nil
	}
}

func (c *fakeContext) CurrentTime() float64 {
	return c.clock.Now().Sub(c.start).Seconds()
}

func (c *fakeContext) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeContext) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumes++
	c.state = StateRunning
	return nil
}

func (c *fakeContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	c.state = StateClosed
	return nil
}

func (c *fakeContext) Destination() Node { return c.dest }

func (c *fakeContext) newNode(kind string) *fakeNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := &fakeNode{ctx: c, kind: kind}
	c.nodes = append(c.nodes, n)
	return n
}

func (c *fakeContext) CreateGain() GainNode {
	n := c.newNode("gain")
	n.gain = &fakeParam{value: 1}
	return fakeGain{n}
}

func (c *fakeContext) CreateOscillator() OscillatorNode {
	n := c.newNode("oscillator")
	n.waveform = Sine
	n.frequency = &fakeParam{value: 440}
	return fakeOsc{n}
}

func (c *fakeContext) CreateBiquadFilter() FilterNode {
	n := c.newNode("filter")
	n.filterType = Lowpass
	n.frequency = &fakeParam{value: 350}
	n.q = &fakeParam{value: 1}
	return fakeFilter{n}
}

func (c *fakeContext) CreateDelay(maxDelay float64) DelayNode {
	n := c.newNode("delay")
	n.maxDelay = maxDelay
	n.delayTime = &fakeParam{}
	return fakeDelay{n}
}

// byKind returns the recorded nodes of one kind in creation order.
func (c *fakeContext) byKind(kind string) []*fakeNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeNode
	for _, n := range c.nodes {
		if n.kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// connected counts nodes that still have outgoing connections.
func (c *fakeContext) connected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, n := range c.nodes {
		if len(n.outputs) > 0 {
			count++
		}
	}
	return count
}

func (n *fakeNode) node() *fakeNode { return n }

func (n *fakeNode) Connect(dst Node) {
	d, ok := dst.(interface{ node() *fakeNode })
	if !ok {
		return
	}
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.outputs = append(n.outputs, d.node())
}

func (n *fakeNode) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.outputs = nil
	n.disconnects++
}

func (n *fakeNode) connectedTo(dst *fakeNode) bool {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	for _, o := range n.outputs {
		if o == dst {
			return true
		}
	}
	return false
}

func (n *fakeNode) disconnectCount() int {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.disconnects
}

func (g fakeGain) Gain() Param { return g.gain }

func (o fakeOsc) SetType(w Waveform) { o.waveform = w }
func (o fakeOsc) Frequency() Param   { return o.frequency }
func (o fakeOsc) Start(t float64)    { o.started, o.startAt = true, t }
func (o fakeOsc) Stop(t float64)     { o.stopped, o.stopAt = true, t }

func (f fakeFilter) SetType(t FilterType) { f.filterType = t }
func (f fakeFilter) Frequency() Param     { return f.frequency }
func (f fakeFilter) Q() Param             { return f.q }

func (d fakeDelay) DelayTime() Param { return d.delayTime }

func (p *fakeParam) SetValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
	p.events = nil
}

func (p *fakeParam) record(kind string, v, t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, paramEvent{kind: kind, value: v, time: t})
}

func (p *fakeParam) SetValueAtTime(v, t float64) { p.record("set", v, t) }

func (p *fakeParam) LinearRampToValueAtTime(v, t float64) { p.record("linear", v, t) }

func (p *fakeParam) ExponentialRampToValueAtTime(v, t float64) { p.record("exp", v, t) }

func (p *fakeParam) snapshot() (float64, []paramEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, append([]paramEvent(nil), p.events...)
}

// fixedRandom returns the values in order, then repeats the last one.
func fixedRandom(values ...float64) func() float64 {
	var mu sync.Mutex
	i := 0
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
