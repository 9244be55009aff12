package audio

import (
	"math"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Master settings
	Enabled      bool
	MasterVolume float64 // 0.0 - 1.0

	// Drone settings
	DroneFreqs      [2]float64 // Slightly detuned pair, beats against itself
	DroneWaveform   Waveform
	DroneFilterFreq float64 // Lowpass cutoff
	DroneVolume     float64

	// Harp bus settings
	HarpBusVolume  float64
	EchoDelay      float64 // Delay time in seconds
	EchoMaxDelay   float64 // Delay line capacity in seconds
	EchoFeedback   float64 // Feedback gain, must stay below 1
	EchoFilterFreq float64 // Lowpass on the wet return

	// Pluck settings
	PluckWaveform  Waveform
	PluckPeak      float64       // Envelope peak
	PluckAttack    float64       // Seconds to peak
	PluckRelease   float64       // Seconds from start to the envelope floor
	PluckFloor     float64       // Exponential ramp target, must be > 0
	PluckStopAfter float64       // Seconds from start to oscillator stop
	PluckMinDelay  time.Duration // Shortest gap between notes
	PluckMaxDelay  time.Duration // Longest gap between notes

	// Chime settings
	ChimeWaveform  Waveform
	ChimeStartFreq float64
	ChimeEndFreq   float64
	ChimeSweep     float64 // Seconds for the pitch sweep
	ChimePeak      float64
	ChimeFloor     float64
	ChimeDecay     float64 // Seconds for the gain decay
	ChimeStopAfter float64 // Seconds from start to oscillator stop

	// Added to a sound's stop time to get its lease TTL
	CleanupMargin time.Duration

	// Seed for the note sequencer, 0 derives one from the wall clock
	Seed uint32
}

// PluckTTL is how long a pluck's nodes stay connected.
func (c *Config) PluckTTL() time.Duration {
	return seconds(c.PluckStopAfter) + c.CleanupMargin
}

// ChimeTTL is how long a chime's nodes stay connected.
func (c *Config) ChimeTTL() time.Duration {
	return seconds(c.ChimeStopAfter) + c.CleanupMargin
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// DefaultConfig returns a copy of AudioConfig.
func DefaultConfig() *Config {
	cfg := AudioConfig
	return &cfg
}

// LoadConfig returns the defaults with SKYISLE_* environment overrides applied.
func LoadConfig() *Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()

	if enabled := getenv("SKYISLE_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume is given as 0-100
	if volume := getenv("SKYISLE_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clamp01(float64(val) / 100.0)
		}
	}

	if seed := getenv("SKYISLE_SEED"); seed != "" {
		if val, err := strconv.ParseUint(seed, 10, 32); err == nil {
			cfg.Seed = uint32(val)
		}
	}

	return cfg
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
