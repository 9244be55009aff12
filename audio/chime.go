package audio

import "github.com/simukka/skyisle/common"

// PlayChime plays the one-shot selection chime straight into dst, an octave
// sweep up with a fast decay.
func PlayChime(ctx Context, dst Node, clock common.Clock, cfg *Config) *Lease {
	t := ctx.CurrentTime()

	osc := ctx.CreateOscillator()
	osc.SetType(cfg.ChimeWaveform)
	osc.Frequency().SetValueAtTime(cfg.ChimeStartFreq, t)
	osc.Frequency().ExponentialRampToValueAtTime(cfg.ChimeEndFreq, t+cfg.ChimeSweep)

	gain := ctx.CreateGain()
	gain.Gain().SetValueAtTime(cfg.ChimePeak, t)
	gain.Gain().ExponentialRampToValueAtTime(cfg.ChimeFloor, t+cfg.ChimeDecay)

	osc.Connect(gain)
	gain.Connect(dst)

	osc.Start(t)
	osc.Stop(t + cfg.ChimeStopAfter)

	return NewLease(clock, cfg.ChimeTTL(), osc, gain)
}
