package synth

import (
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// offline advances a scheduling clock in lockstep with rendered audio.
type offline struct {
	ctx     *Context
	advance func(time.Duration)
}

// Offline wraps c so that every chunk first moves advance forward by the
// chunk's duration. Timers due inside the chunk fire at its start.
func Offline(c *Context, advance func(time.Duration)) beep.Streamer {
	return &offline{ctx: c, advance: advance}
}

func (o *offline) Stream(samples [][2]float64) (int, bool) {
	o.advance(o.ctx.rate.D(len(samples)))
	return o.ctx.Stream(samples)
}

func (o *offline) Err() error {
	return o.ctx.Err()
}

// RenderWAV writes d of s as 16-bit stereo WAV.
func RenderWAV(w io.WriteSeeker, s beep.Streamer, rate beep.SampleRate, d time.Duration) error {
	format := beep.Format{
		SampleRate:  rate,
		NumChannels: 2,
		Precision:   2,
	}
	return wav.Encode(w, beep.Take(rate.N(d), s), format)
}
