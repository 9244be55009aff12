package synth

import (
	"math"

	"github.com/simukka/skyisle/audio"
)

type processor interface {
	process(n *node, t float64) float64
}

// node holds graph edges and caches its output for the current tick, so a
// node feeding several others is evaluated once per sample.
type node struct {
	ctx      *Context
	proc     processor
	inputs   []*node
	outputs  []*node
	lastTick uint64
	last     float64
	busy     bool
}

func (n *node) base() *node { return n }

// Connect adds an edge to dst. Duplicate edges are ignored.
func (n *node) Connect(dst audio.Node) {
	d, ok := dst.(interface{ base() *node })
	if !ok {
		return
	}
	target := d.base()

	c := n.ctx
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range n.outputs {
		if o == target {
			return
		}
	}
	n.outputs = append(n.outputs, target)
	target.inputs = append(target.inputs, n)
	c.attached[n] = struct{}{}
}

// Disconnect removes every outgoing edge.
func (n *node) Disconnect() {
	c := n.ctx
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range n.outputs {
		o.inputs = removeNode(o.inputs, n)
	}
	n.outputs = nil
	delete(c.attached, n)
}

func removeNode(list []*node, n *node) []*node {
	for i, v := range list {
		if v == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// output returns this tick's sample. A cycle that does not pass through a
// delay reads 0 at the point where it closes.
func (n *node) output(t float64) float64 {
	if n.lastTick == n.ctx.tick {
		return n.last
	}
	if n.busy {
		return 0
	}
	n.busy = true
	v := n.proc.process(n, t)
	n.busy = false
	n.lastTick = n.ctx.tick
	n.last = v
	return v
}

func (n *node) input(t float64) float64 {
	sum := 0.0
	for _, in := range n.inputs {
		sum += in.output(t)
	}
	return sum
}

// === DESTINATION ===

// Destination sums everything connected to it.
type Destination struct {
	*node
}

type passProc struct{}

func (passProc) process(n *node, t float64) float64 {
	return n.input(t)
}

// === GAIN ===

type Gain struct {
	*node
	proc *gainProc
}

func (g *Gain) Gain() audio.Param { return g.proc.gain }

type gainProc struct {
	gain *Param
}

func (g *gainProc) process(n *node, t float64) float64 {
	return n.input(t) * g.gain.valueAt(t)
}

// === OSCILLATOR ===

type Oscillator struct {
	*node
	proc *oscProc
}

func (o *Oscillator) SetType(w audio.Waveform) {
	o.ctx.mu.Lock()
	o.proc.wave = w
	o.ctx.mu.Unlock()
}

func (o *Oscillator) Frequency() audio.Param { return o.proc.freq }

// Start schedules playback; t <= 0 starts at the current time.
func (o *Oscillator) Start(t float64) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if o.proc.started {
		return
	}
	if now := o.ctx.now(); t < now {
		t = now
	}
	o.proc.started = true
	o.proc.start = t
}

// Stop schedules the end of playback; t <= 0 stops at the current time.
func (o *Oscillator) Stop(t float64) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if now := o.ctx.now(); t < now {
		t = now
	}
	o.proc.stopping = true
	o.proc.stop = t
}

type oscProc struct {
	rate     float64
	wave     audio.Waveform
	freq     *Param
	phase    float64
	started  bool
	start    float64
	stopping bool
	stop     float64
}

func (o *oscProc) process(_ *node, t float64) float64 {
	if !o.started || t < o.start || (o.stopping && t >= o.stop) {
		return 0
	}
	v := waveform(o.wave, o.phase)
	o.phase += o.freq.valueAt(t) / o.rate
	o.phase -= math.Floor(o.phase)
	return v
}

// waveform evaluates one period at phase p in [0, 1); all shapes start at 0
// rising, like the Web Audio periodic waves.
func waveform(w audio.Waveform, p float64) float64 {
	switch w {
	case audio.Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case audio.Sawtooth:
		return 2 * (p - math.Floor(p+0.5))
	case audio.Triangle:
		x := p - 0.25
		return 1 - 4*math.Abs(math.Round(x)-x)
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// === BIQUAD FILTER ===

type Filter struct {
	*node
	proc *biquadProc
}

func (f *Filter) SetType(t audio.FilterType) {
	f.ctx.mu.Lock()
	f.proc.typ = t
	f.proc.valid = false
	f.ctx.mu.Unlock()
}

func (f *Filter) Frequency() audio.Param { return f.proc.freq }
func (f *Filter) Q() audio.Param         { return f.proc.q }

type biquadProc struct {
	rate float64
	typ  audio.FilterType
	freq *Param
	q    *Param

	// coefficients for the last (freq, q), normalised by a0
	valid          bool
	lastF, lastQ   float64
	b0, b1, b2     float64
	a1, a2         float64
	x1, x2, y1, y2 float64
}

func (b *biquadProc) process(n *node, t float64) float64 {
	f, q := b.freq.valueAt(t), b.q.valueAt(t)
	if !b.valid || f != b.lastF || q != b.lastQ {
		b.design(f, q)
	}
	x := n.input(t)
	y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2, b.x1 = b.x1, x
	b.y2, b.y1 = b.y1, y
	return y
}

// design computes coefficients with the Web Audio formulas; Q is in dB for
// lowpass and highpass.
func (b *biquadProc) design(f, q float64) {
	b.valid, b.lastF, b.lastQ = true, f, q

	nyquist := b.rate / 2
	if f < 1 {
		f = 1
	}
	if f > nyquist*0.999 {
		f = nyquist * 0.999
	}
	w0 := 2 * math.Pi * f / b.rate
	cosw := math.Cos(w0)
	sinw := math.Sin(w0)

	var alpha float64
	switch b.typ {
	case audio.Bandpass:
		if q <= 0 {
			q = 0.0001
		}
		alpha = sinw / (2 * q)
	default:
		alpha = sinw / (2 * math.Pow(10, q/20))
	}

	var b0, b1, b2 float64
	switch b.typ {
	case audio.Highpass:
		b0 = (1 + cosw) / 2
		b1 = -(1 + cosw)
		b2 = b0
	case audio.Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = b0
	}
	a0 := 1 + alpha
	b.b0, b.b1, b.b2 = b0/a0, b1/a0, b2/a0
	b.a1 = -2 * cosw / a0
	b.a2 = (1 - alpha) / a0
}

// === DELAY ===

type Delay struct {
	*node
	proc *delayProc
}

func (d *Delay) DelayTime() audio.Param { return d.proc.delayTime }

// delayProc reads during the output pass and writes in commit, after every
// other node has rendered, which is what makes feedback through it legal.
type delayProc struct {
	node      *node
	rate      float64
	delayTime *Param
	buf       []float64
	write     int
}

func (d *delayProc) process(_ *node, t float64) float64 {
	size := len(d.buf)
	samples := d.delayTime.valueAt(t) * d.rate
	if samples < 1 {
		samples = 1
	}
	if limit := float64(size - 1); samples > limit {
		samples = limit
	}

	pos := float64(d.write) - samples
	for pos < 0 {
		pos += float64(size)
	}
	i := int(pos)
	frac := pos - float64(i)
	a := d.buf[i%size]
	b := d.buf[(i+1)%size]
	return a + (b-a)*frac
}

func (d *delayProc) commit(t float64) {
	d.buf[d.write] = d.node.input(t)
	d.write = (d.write + 1) % len(d.buf)
}
