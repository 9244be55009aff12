package audio

import (
	"testing"
	"time"
)

// TestConfig_TTLs tests that lease lifetimes derive from the sound durations
func TestConfig_TTLs(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.PluckTTL(); got != 3200*time.Millisecond {
		t.Errorf("Expected pluck TTL 3.2s, got %v", got)
	}
	if got := cfg.ChimeTTL(); got != 600*time.Millisecond {
		t.Errorf("Expected chime TTL 600ms, got %v", got)
	}
}

// TestDefaultConfig_Copy tests that callers cannot mutate the package default
func TestDefaultConfig_Copy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MasterVolume = 0.1
	cfg.DroneFreqs[0] = 1

	if AudioConfig.MasterVolume != 0.8 {
		t.Errorf("Expected package default untouched, got %f", AudioConfig.MasterVolume)
	}
	if AudioConfig.DroneFreqs[0] != 65.41 {
		t.Errorf("Expected drone default untouched, got %f", AudioConfig.DroneFreqs[0])
	}
}

// TestLoadConfig_Env tests environment overrides
func TestLoadConfig_Env(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		enabled bool
		volume  float64
		seed    uint32
	}{
		{"defaults", nil, true, 0.8, 0},
		{"volume", map[string]string{"SKYISLE_MASTER_VOLUME": "50"}, true, 0.5, 0},
		{"volume clamped", map[string]string{"SKYISLE_MASTER_VOLUME": "250"}, true, 1, 0},
		{"volume garbage", map[string]string{"SKYISLE_MASTER_VOLUME": "loud"}, true, 0.8, 0},
		{"disabled", map[string]string{"SKYISLE_AUDIO_ENABLED": "false"}, false, 0.8, 0},
		{"seed", map[string]string{"SKYISLE_SEED": "1234"}, true, 0.8, 1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadConfig(func(k string) string { return tt.env[k] })
			if cfg.Enabled != tt.enabled {
				t.Errorf("Expected enabled=%v, got %v", tt.enabled, cfg.Enabled)
			}
			if cfg.MasterVolume != tt.volume {
				t.Errorf("Expected volume %f, got %f", tt.volume, cfg.MasterVolume)
			}
			if cfg.Seed != tt.seed {
				t.Errorf("Expected seed %d, got %d", tt.seed, cfg.Seed)
			}
		})
	}
}

// TestPickNote tests that every r in [0, 1] maps into the scale table
func TestPickNote(t *testing.T) {
	tests := []struct {
		r    float64
		want float64
	}{
		{0, 261.63},
		{0.05, 261.63},
		{0.1, 293.66},
		{0.5, 523.25},
		{0.999999, 880.00},
		{1, 880.00},
		{-0.5, 261.63},
	}

	for _, tt := range tests {
		if got := PickNote(tt.r); got != tt.want {
			t.Errorf("PickNote(%f): expected %f, got %f", tt.r, tt.want, got)
		}
	}
}
