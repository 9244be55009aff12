//go:build js
// +build js

package webaudio

import (
	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/skyisle/audio"
)

type node struct {
	obj *js.Object
}

func (n *node) object() *js.Object { return n.obj }

func (n *node) Connect(dst audio.Node) {
	if d, ok := dst.(interface{ object() *js.Object }); ok {
		n.obj.Call("connect", d.object())
	}
}

// Disconnect removes every outgoing connection. Disconnecting an already
// disconnected node is harmless.
func (n *node) Disconnect() {
	defer func() { recover() }()
	n.obj.Call("disconnect")
}

type param struct {
	obj *js.Object
}

func (p param) SetValue(v float64) {
	p.obj.Call("cancelScheduledValues", 0)
	p.obj.Set("value", v)
}

func (p param) SetValueAtTime(v, t float64) {
	p.obj.Call("setValueAtTime", v, t)
}

func (p param) LinearRampToValueAtTime(v, t float64) {
	p.obj.Call("linearRampToValueAtTime", v, t)
}

func (p param) ExponentialRampToValueAtTime(v, t float64) {
	p.obj.Call("exponentialRampToValueAtTime", v, t)
}

type gainNode struct{ node }

func (g *gainNode) Gain() audio.Param { return param{g.obj.Get("gain")} }

type oscillatorNode struct{ node }

func (o *oscillatorNode) SetType(w audio.Waveform) { o.obj.Set("type", string(w)) }
func (o *oscillatorNode) Frequency() audio.Param   { return param{o.obj.Get("frequency")} }

func (o *oscillatorNode) Start(t float64) {
	o.obj.Call("start", t)
}

// Stop throws if the oscillator never started; that case is ignored.
func (o *oscillatorNode) Stop(t float64) {
	defer func() { recover() }()
	o.obj.Call("stop", t)
}

type filterNode struct{ node }

func (f *filterNode) SetType(t audio.FilterType) { f.obj.Set("type", string(t)) }
func (f *filterNode) Frequency() audio.Param     { return param{f.obj.Get("frequency")} }
func (f *filterNode) Q() audio.Param             { return param{f.obj.Get("Q")} }

type delayNode struct{ node }

func (d *delayNode) DelayTime() audio.Param { return param{d.obj.Get("delayTime")} }
