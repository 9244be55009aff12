package audio

import "sync"

// Graph is the long-lived part of the soundscape: the drone and the harp bus
// with its echo. Built once per engine lifetime.
type Graph struct {
	// HarpBus is where plucks are connected.
	HarpBus GainNode

	oscillators []OscillatorNode
	nodes       []Node
	once        sync.Once
}

// BuildGraph wires the drone and the harp bus into master and starts the drone.
func BuildGraph(ctx Context, master Node, cfg *Config) *Graph {
	g := &Graph{}
	g.buildDrone(ctx, master, cfg)
	g.buildHarpBus(ctx, master, cfg)
	return g
}

// === DRONE ===
// Two sines a fraction of a hertz apart beat slowly against each other.
func (g *Graph) buildDrone(ctx Context, master Node, cfg *Config) {
	t := ctx.CurrentTime()

	filter := ctx.CreateBiquadFilter()
	filter.SetType(Lowpass)
	filter.Frequency().SetValue(cfg.DroneFilterFreq)

	gain := ctx.CreateGain()
	gain.Gain().SetValueAtTime(cfg.DroneVolume, t)

	for _, freq := range cfg.DroneFreqs {
		osc := ctx.CreateOscillator()
		osc.SetType(cfg.DroneWaveform)
		osc.Frequency().SetValue(freq)
		osc.Connect(filter)
		osc.Start(0)

		g.oscillators = append(g.oscillators, osc)
		g.nodes = append(g.nodes, osc)
	}

	filter.Connect(gain)
	gain.Connect(master)

	g.nodes = append(g.nodes, filter, gain)
}

// === HARP BUS ===
// Dry to master, wet through a feedback delay whose return is darkened by a
// lowpass.
func (g *Graph) buildHarpBus(ctx Context, master Node, cfg *Config) {
	bus := ctx.CreateGain()
	bus.Gain().SetValue(cfg.HarpBusVolume)

	delay := ctx.CreateDelay(cfg.EchoMaxDelay)
	delay.DelayTime().SetValue(cfg.EchoDelay)

	feedback := ctx.CreateGain()
	feedback.Gain().SetValue(cfg.EchoFeedback)

	filter := ctx.CreateBiquadFilter()
	filter.SetType(Lowpass)
	filter.Frequency().SetValue(cfg.EchoFilterFreq)

	bus.Connect(master)
	bus.Connect(delay)
	delay.Connect(feedback)
	feedback.Connect(delay)
	feedback.Connect(filter)
	filter.Connect(master)

	g.HarpBus = bus
	g.nodes = append(g.nodes, bus, delay, feedback, filter)
}

// Dispose stops the drone and disconnects every node. Idempotent.
func (g *Graph) Dispose() {
	g.once.Do(func() {
		for _, osc := range g.oscillators {
			osc.Stop(0)
		}
		for _, n := range g.nodes {
			n.Disconnect()
		}
	})
}
