//go:build !js
// +build !js

package main

import (
	"encoding/json"
	"log/slog"

	"github.com/quasilyte/gdata"
)

const settingsKey = "settings"

// Settings are the console preferences kept between runs.
type Settings struct {
	Muted   bool    `json:"muted"`
	Volume  float64 `json:"volume"`
	Backend string  `json:"backend"`
}

// itemStore is the part of gdata.Manager the console uses.
type itemStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// settingsStore persists Settings. A nil backing store makes it a no-op so
// the console runs fine without a writable data dir.
type settingsStore struct {
	items itemStore
	log   *slog.Logger
}

func openSettings(logger *slog.Logger) *settingsStore {
	m, err := gdata.Open(gdata.Config{
		AppName: "skyisle",
	})
	if err != nil {
		logger.Warn("could not initialize persistence", "error", err)
		return &settingsStore{log: logger}
	}
	return &settingsStore{items: m, log: logger}
}

// Load returns the saved settings merged over defaults.
func (s *settingsStore) Load(defaults Settings) Settings {
	if s.items == nil {
		return defaults
	}

	data, err := s.items.LoadItem(settingsKey)
	if err != nil {
		s.log.Warn("could not load settings", "error", err)
		return defaults
	}
	if len(data) == 0 {
		return defaults
	}

	out := defaults
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warn("could not parse saved settings", "error", err)
		return defaults
	}
	if out.Volume < 0 || out.Volume > 1 {
		out.Volume = defaults.Volume
	}
	return out
}

// Save writes settings. Failures are logged and returned.
func (s *settingsStore) Save(v Settings) error {
	if s.items == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("could not serialize settings", "error", err)
		return err
	}
	if err := s.items.SaveItem(settingsKey, data); err != nil {
		s.log.Warn("could not save settings", "error", err)
		return err
	}
	return nil
}
