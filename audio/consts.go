package audio

import "time"

var AudioConfig = Config{
	// Master settings
	Enabled:      true,
	MasterVolume: 0.8,

	// Drone settings
	DroneFreqs:      [2]float64{65.41, 65.80},
	DroneWaveform:   Sine,
	DroneFilterFreq: 200,
	DroneVolume:     0.05,

	// Harp bus settings
	HarpBusVolume:  0.3,
	EchoDelay:      0.375,
	EchoMaxDelay:   1.0,
	EchoFeedback:   0.4,
	EchoFilterFreq: 1500,

	// Pluck settings
	PluckWaveform:  Triangle,
	PluckPeak:      0.1,
	PluckAttack:    0.02,
	PluckRelease:   3.0,
	PluckFloor:     0.0001,
	PluckStopAfter: 3.1,
	PluckMinDelay:  500 * time.Millisecond,
	PluckMaxDelay:  2500 * time.Millisecond,

	// Chime settings
	ChimeWaveform:  Sine,
	ChimeStartFreq: 523.25,
	ChimeEndFreq:   1046.50,
	ChimeSweep:     0.3,
	ChimePeak:      0.1,
	ChimeFloor:     0.001,
	ChimeDecay:     0.5,
	ChimeStopAfter: 0.5,

	CleanupMargin: 100 * time.Millisecond,
}

// HarpScale is C major pentatonic over two octaves, C4 to A5, in Hz.
var HarpScale = [...]float64{
	261.63, // C4
	293.66, // D4
	329.63, // E4
	392.00, // G4
	440.00, // A4
	523.25, // C5
	587.33, // D5
	659.25, // E5
	783.99, // G5
	880.00, // A5
}

// PickNote maps r in [0, 1) to a scale degree. Out-of-range r is clamped.
func PickNote(r float64) float64 {
	i := int(r * float64(len(HarpScale)))
	if i < 0 {
		i = 0
	}
	if i >= len(HarpScale) {
		i = len(HarpScale) - 1
	}
	return HarpScale[i]
}
