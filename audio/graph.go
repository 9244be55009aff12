package audio

import "errors"

var (
	// ErrUnavailable means the platform has no audio output.
	ErrUnavailable = errors.New("audio: output unavailable")
	// ErrClosed means the engine was disposed.
	ErrClosed = errors.New("audio: engine closed")
)

// State of an output context, named as the Web Audio API names them.
type State string

const (
	StateSuspended State = "suspended"
	StateRunning   State = "running"
	StateClosed    State = "closed"
)

// Waveform of an oscillator.
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
	Triangle Waveform = "triangle"
)

// FilterType of a biquad filter.
type FilterType string

const (
	Lowpass  FilterType = "lowpass"
	Highpass FilterType = "highpass"
	Bandpass FilterType = "bandpass"
)

// Context is the subset of a Web Audio context the soundscape drives.
// Times are in seconds on the context's own clock.
type Context interface {
	CurrentTime() float64
	State() State
	Resume() error
	Close() error

	Destination() Node
	CreateGain() GainNode
	CreateOscillator() OscillatorNode
	CreateBiquadFilter() FilterNode
	CreateDelay(maxDelay float64) DelayNode
}

// Opener creates a fresh output context. Returns an error wrapping
// ErrUnavailable when the platform cannot play audio.
type Opener func() (Context, error)

// Node is a vertex of the audio graph.
type Node interface {
	Connect(dst Node)
	// Disconnect removes every outgoing connection.
	Disconnect()
}

// Param is an automatable value such as a gain or a frequency.
type Param interface {
	// SetValue sets the value immediately and drops scheduled automation.
	SetValue(v float64)
	SetValueAtTime(v, t float64)
	LinearRampToValueAtTime(v, t float64)
	ExponentialRampToValueAtTime(v, t float64)
}

// GainNode scales its input.
type GainNode interface {
	Node
	Gain() Param
}

// OscillatorNode is a scheduled periodic source.
type OscillatorNode interface {
	Node
	SetType(w Waveform)
	Frequency() Param
	// Start begins playback at context time t. t <= 0 means now.
	Start(t float64)
	// Stop ends playback at context time t. t <= 0 means now.
	Stop(t float64)
}

// FilterNode is a biquad filter.
type FilterNode interface {
	Node
	SetType(f FilterType)
	Frequency() Param
	Q() Param
}

// DelayNode delays its input.
type DelayNode interface {
	Node
	DelayTime() Param
}
