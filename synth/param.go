package synth

import (
	"math"
	"sort"
)

type eventKind int

const (
	setEvent eventKind = iota
	linearEvent
	expEvent
)

type event struct {
	kind  eventKind
	value float64
	time  float64
	from  float64 // context time the event was scheduled, start of a leading ramp
}

// Param is an automatable value. Events are kept sorted by time; a ramp runs
// from the previous event (or from when it was scheduled) to its own time.
type Param struct {
	ctx    *Context
	value  float64
	events []event
}

func newParam(ctx *Context, v float64) *Param {
	return &Param{ctx: ctx, value: v}
}

// SetValue sets the value now and drops scheduled automation.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.value = v
	p.events = nil
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.schedule(setEvent, v, t)
}

func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.schedule(linearEvent, v, t)
}

func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.schedule(expEvent, v, t)
}

func (p *Param) schedule(kind eventKind, v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	e := event{kind: kind, value: v, time: t, from: p.ctx.now()}
	// insert after any event at the same time
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > t })
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// valueAt evaluates the timeline at t, caller holds the context lock
func (p *Param) valueAt(t float64) float64 {
	v, t0 := p.value, 0.0
	for i, e := range p.events {
		if e.time <= t {
			v, t0 = e.value, e.time
			continue
		}
		if i == 0 {
			t0 = e.from
		}
		if t < t0 {
			return v
		}
		switch e.kind {
		case linearEvent:
			return rampLinear(v, e.value, t0, e.time, t)
		case expEvent:
			return rampExp(v, e.value, t0, e.time, t)
		default:
			return v
		}
	}
	return v
}

func rampLinear(v0, v1, t0, t1, t float64) float64 {
	if t1 <= t0 {
		return v1
	}
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}

// rampExp holds v0 when the ramp would cross or touch zero, as Web Audio does.
func rampExp(v0, v1, t0, t1, t float64) float64 {
	if t1 <= t0 {
		return v1
	}
	if v0*v1 <= 0 {
		return v0
	}
	return v0 * math.Pow(v1/v0, (t-t0)/(t1-t0))
}
