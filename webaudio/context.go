//go:build js
// +build js

// Package webaudio implements audio.Context on the browser's Web Audio API.
package webaudio

import (
	"errors"
	"fmt"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/skyisle/audio"
)

// Context wraps an AudioContext.
type Context struct {
	obj  *js.Object
	dest *node
}

// Open creates an AudioContext, falling back to webkitAudioContext.
// Returns audio.ErrUnavailable when neither exists or the constructor throws.
func Open() (ac audio.Context, err error) {
	defer func() {
		if err != nil && !errors.Is(err, audio.ErrUnavailable) {
			ac, err = nil, fmt.Errorf("%w: %v", audio.ErrUnavailable, err)
		}
	}()
	defer catch(&err)

	audioCtx := js.Global.Get("AudioContext")
	if audioCtx == nil || audioCtx == js.Undefined {
		audioCtx = js.Global.Get("webkitAudioContext")
	}
	if audioCtx == nil || audioCtx == js.Undefined {
		return nil, audio.ErrUnavailable
	}

	obj := audioCtx.New()
	return &Context{
		obj:  obj,
		dest: &node{obj: obj.Get("destination")},
	}, nil
}

func (c *Context) CurrentTime() float64 {
	return c.obj.Get("currentTime").Float()
}

func (c *Context) State() audio.State {
	return audio.State(c.obj.Get("state").String())
}

// Resume asks the browser to resume; the returned promise is not awaited.
func (c *Context) Resume() (err error) {
	defer catch(&err)
	c.obj.Call("resume")
	return nil
}

func (c *Context) Close() (err error) {
	defer catch(&err)
	c.obj.Call("close")
	return nil
}

func (c *Context) Destination() audio.Node {
	return c.dest
}

func (c *Context) CreateGain() audio.GainNode {
	return &gainNode{node{obj: c.obj.Call("createGain")}}
}

func (c *Context) CreateOscillator() audio.OscillatorNode {
	return &oscillatorNode{node{obj: c.obj.Call("createOscillator")}}
}

func (c *Context) CreateBiquadFilter() audio.FilterNode {
	return &filterNode{node{obj: c.obj.Call("createBiquadFilter")}}
}

func (c *Context) CreateDelay(maxDelay float64) audio.DelayNode {
	return &delayNode{node{obj: c.obj.Call("createDelay", maxDelay)}}
}

// catch turns a thrown JavaScript exception into an error.
func catch(err *error) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(*js.Error); ok {
			*err = jsErr
			return
		}
		panic(r)
	}
}
