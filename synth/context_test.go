package synth

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/simukka/skyisle/audio"
	"github.com/simukka/skyisle/common"
)

// render pulls n frames and returns the left channel
func render(c *Context, n int) []float64 {
	buf := make([][2]float64, n)
	c.Stream(buf)
	out := make([]float64, n)
	for i, s := range buf {
		out[i] = s[0]
	}
	return out
}

func rms(samples []float64) float64 {
	sum := 0.0
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// --- Oscillator Tests ---

// TestOscillator_Frequency tests pitch by counting rising zero crossings
func TestOscillator_Frequency(t *testing.T) {
	c := NewContext(44100)
	osc := c.CreateOscillator()
	osc.Frequency().SetValue(440)
	osc.Connect(c.Destination())
	osc.Start(0)

	out := render(c, 44100)
	crossings := 0
	for i := 1; i < len(out); i++ {
		if out[i-1] < 0 && out[i] >= 0 {
			crossings++
		}
	}
	if crossings < 439 || crossings > 441 {
		t.Errorf("Expected ~440 cycles in one second, got %d", crossings)
	}
}

// TestOscillator_Waveforms tests the shape of each waveform at quarter phases
func TestOscillator_Waveforms(t *testing.T) {
	tests := []struct {
		wave audio.Waveform
		want [4]float64
	}{
		{audio.Sine, [4]float64{0, 1, 0, -1}},
		{audio.Triangle, [4]float64{0, 1, 0, -1}},
		{audio.Square, [4]float64{1, 1, -1, -1}},
		{audio.Sawtooth, [4]float64{0, 0.5, -1, -0.5}},
	}

	for _, tt := range tests {
		t.Run(string(tt.wave), func(t *testing.T) {
			for i, p := range []float64{0, 0.25, 0.5, 0.75} {
				if got := waveform(tt.wave, p); !approx(got, tt.want[i], 1e-9) {
					t.Errorf("Phase %f: expected %f, got %f", p, tt.want[i], got)
				}
			}
		})
	}
}

// TestOscillator_StartStop tests silence outside the scheduled window
func TestOscillator_StartStop(t *testing.T) {
	c := NewContext(1000)
	osc := c.CreateOscillator()
	osc.SetType(audio.Square)
	osc.Frequency().SetValue(1)
	osc.Connect(c.Destination())
	osc.Start(0.1)
	osc.Stop(0.2)

	out := render(c, 300)
	for i, v := range out {
		playing := i >= 100 && i < 200
		if playing && v == 0 {
			t.Fatalf("Expected sound at frame %d", i)
		}
		if !playing && v != 0 {
			t.Fatalf("Expected silence at frame %d, got %f", i, v)
		}
	}
}

// --- Gain and Filter Tests ---

// TestGain_Scales tests that a gain node multiplies its input
func TestGain_Scales(t *testing.T) {
	c := NewContext(1000)
	osc := c.CreateOscillator()
	osc.SetType(audio.Square)
	osc.Frequency().SetValue(1)
	gain := c.CreateGain()
	gain.Gain().SetValue(0.5)
	osc.Connect(gain)
	gain.Connect(c.Destination())
	osc.Start(0)

	for i, v := range render(c, 100) {
		if !approx(v, 0.5, 1e-12) {
			t.Fatalf("Frame %d: expected 0.5, got %f", i, v)
		}
	}
}

// TestFilter_Lowpass tests that a lowpass keeps lows and removes highs
func TestFilter_Lowpass(t *testing.T) {
	level := func(freq, cutoff float64) float64 {
		c := NewContext(8000)
		osc := c.CreateOscillator()
		osc.Frequency().SetValue(freq)
		filter := c.CreateBiquadFilter()
		filter.SetType(audio.Lowpass)
		filter.Frequency().SetValue(cutoff)
		osc.Connect(filter)
		filter.Connect(c.Destination())
		osc.Start(0)

		render(c, 4000) // settle
		return rms(render(c, 8000))
	}

	input := 1 / math.Sqrt2
	if got := level(50, 1500); got < 0.9*input {
		t.Errorf("Expected 50Hz to pass a 1500Hz lowpass, rms %f", got)
	}
	if got := level(3000, 200); got > 0.05*input {
		t.Errorf("Expected 3000Hz to be removed by a 200Hz lowpass, rms %f", got)
	}
}

// --- Delay Tests ---

// pulse creates a 5ms burst of 0.5 at t=0
func pulse(c *Context) audio.GainNode {
	osc := c.CreateOscillator()
	osc.SetType(audio.Square)
	osc.Frequency().SetValue(1)
	level := c.CreateGain()
	level.Gain().SetValue(0.5)
	osc.Connect(level)
	osc.Start(0)
	osc.Stop(0.005)
	return level
}

// TestDelay_Echo tests a single delayed copy
func TestDelay_Echo(t *testing.T) {
	c := NewContext(1000)
	src := pulse(c)
	delay := c.CreateDelay(1)
	delay.DelayTime().SetValue(0.1)
	src.Connect(delay)
	delay.Connect(c.Destination())

	out := render(c, 300)
	for i, v := range out {
		want := 0.0
		if i >= 100 && i < 105 {
			want = 0.5
		}
		if !approx(v, want, 1e-9) {
			t.Fatalf("Frame %d: expected %f, got %f", i, want, v)
		}
	}
}

// TestDelay_Feedback tests decaying repeats through a feedback loop
func TestDelay_Feedback(t *testing.T) {
	c := NewContext(1000)
	src := pulse(c)
	delay := c.CreateDelay(1)
	delay.DelayTime().SetValue(0.1)
	feedback := c.CreateGain()
	feedback.Gain().SetValue(0.5)

	src.Connect(delay)
	delay.Connect(feedback)
	feedback.Connect(delay)
	delay.Connect(c.Destination())

	out := render(c, 450)
	for _, echo := range []struct {
		frame int
		want  float64
	}{
		{100, 0.5},
		{200, 0.25},
		{300, 0.125},
		{400, 0.0625},
		{150, 0},
	} {
		if !approx(out[echo.frame], echo.want, 1e-9) {
			t.Errorf("Frame %d: expected %f, got %f", echo.frame, echo.want, out[echo.frame])
		}
	}
}

// TestNode_CycleWithoutDelay tests that an illegal cycle renders instead of hanging
func TestNode_CycleWithoutDelay(t *testing.T) {
	c := NewContext(1000)
	a := c.CreateGain()
	b := c.CreateGain()
	a.Connect(b)
	b.Connect(a)
	b.Connect(c.Destination())

	for _, v := range render(c, 10) {
		if v != 0 {
			t.Fatalf("Expected silence from a sourceless cycle, got %f", v)
		}
	}
}

// --- Context Tests ---

// TestContext_Lifecycle tests suspend, resume and close
func TestContext_Lifecycle(t *testing.T) {
	c := NewContext(1000)
	if c.State() != audio.StateRunning {
		t.Fatalf("Expected running, got %s", c.State())
	}

	render(c, 100)
	if !approx(c.CurrentTime(), 0.1, 1e-12) {
		t.Errorf("Expected 0.1s rendered, got %f", c.CurrentTime())
	}

	if err := c.Suspend(); err != nil {
		t.Fatal(err)
	}
	render(c, 100)
	if !approx(c.CurrentTime(), 0.1, 1e-12) {
		t.Errorf("Expected clock frozen while suspended, got %f", c.CurrentTime())
	}

	if err := c.Resume(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if n, ok := c.Stream(make([][2]float64, 10)); n != 0 || ok {
		t.Errorf("Expected end of stream after close, got n=%d ok=%v", n, ok)
	}
	if err := c.Resume(); err == nil {
		t.Error("Expected resume of a closed context to fail")
	}
}

// TestContext_NodeCount tests attach and detach bookkeeping
func TestContext_NodeCount(t *testing.T) {
	c := NewContext(1000)
	osc := c.CreateOscillator()
	gain := c.CreateGain()

	osc.Connect(gain)
	osc.Connect(gain)
	gain.Connect(c.Destination())
	if c.NodeCount() != 2 {
		t.Errorf("Expected 2 attached nodes, got %d", c.NodeCount())
	}

	osc.Disconnect()
	gain.Disconnect()
	if c.NodeCount() != 0 {
		t.Errorf("Expected 0 attached nodes, got %d", c.NodeCount())
	}
}

// TestSoftClip tests the limiter curve
func TestSoftClip(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{-0.8, -0.8},
		{1.0, 0.8 + 0.2*(1-1/2.0)},
		{100, 0.8 + 0.2*(1-1/(1+99.2*5))},
	}
	for _, tt := range tests {
		if got := softClip(tt.in); !approx(got, tt.want, 1e-12) {
			t.Errorf("softClip(%f): expected %f, got %f", tt.in, tt.want, got)
		}
	}
	if softClip(1e9) > 1 {
		t.Error("Expected output bounded by 1")
	}
}

// --- Soundscape Integration Tests ---

// TestSoundscape_NoLeaks runs the full soundscape on the renderer and checks
// that transient nodes never pile up
func TestSoundscape_NoLeaks(t *testing.T) {
	const rate = beep.SampleRate(8000)
	clock := common.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewContext(rate)

	engine := audio.NewEngine(func() (audio.Context, error) { return c, nil }, nil, nil)
	s := audio.NewSoundscape(engine,
		audio.WithClock(clock),
		audio.WithRandom(common.NewSeededRNG(11).Random),
	)
	s.Interact()
	s.Select("b2")

	stream := Offline(c, clock.Advance)
	buf := make([][2]float64, rate.N(50*time.Millisecond))
	peak := 0.0

	// nine graph nodes, at most seven overlapping notes and one chime
	const maxAttached = 9 + 14 + 2
	for i := 0; i < 400; i++ {
		stream.Stream(buf)
		for _, frame := range buf {
			peak = math.Max(peak, math.Abs(frame[0]))
		}
		if n := c.NodeCount(); n > maxAttached {
			t.Fatalf("Expected at most %d attached nodes, got %d after %v", maxAttached, n, rate.D(len(buf)*(i+1)))
		}
	}

	if peak == 0 {
		t.Error("Expected audible output")
	}
	if peak > 1 {
		t.Errorf("Expected clipped output, peak %f", peak)
	}
	if s.Notes() < 8 {
		t.Errorf("Expected at least 8 notes in 20s, got %d", s.Notes())
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	clock.Advance(5 * time.Second)
	if n := c.NodeCount(); n != 0 {
		t.Errorf("Expected every node released after close, got %d", n)
	}
}
