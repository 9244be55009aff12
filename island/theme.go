package island

import "github.com/simukka/skyisle/lore"

// Theme holds the visual styling of the overlay.
var Theme = struct {
	// Panel
	PanelBackground string
	PanelBorder     string
	PanelGlow       string
	AccentColor     string
	TextPrimary     string
	TextSecondary   string
	SecretColor     string

	// List
	ItemColor      string
	ItemHover      string
	ItemSelected   string
	ItemBobPixels  float64
	HeaderFont     string
	BodyFont       string
	LoadingColor   string
	EmptyTextColor string

	// Status badges
	StatusOperational string
	StatusDamaged     string
	StatusUpgrading   string
	StatusUnknown     string
}{
	PanelBackground: "rgba(15, 23, 42, 0.9)",
	PanelBorder:     "#155e75",
	PanelGlow:       "0 0 30px rgba(34, 211, 238, 0.2)",
	AccentColor:     "#22d3ee",
	TextPrimary:     "#e2e8f0",
	TextSecondary:   "#94a3b8",
	SecretColor:     "#c4b5fd",

	ItemColor:      "#cbd5e1",
	ItemHover:      "#67e8f9",
	ItemSelected:   "#22d3ee",
	ItemBobPixels:  40,
	HeaderFont:     "Orbitron, Consolas, monospace",
	BodyFont:       "Consolas, monospace",
	LoadingColor:   "#22d3ee",
	EmptyTextColor: "#64748b",

	StatusOperational: "#4ade80",
	StatusDamaged:     "#f87171",
	StatusUpgrading:   "#facc15",
	StatusUnknown:     "#94a3b8",
}

// StatusColor returns the badge colour for s.
func StatusColor(s lore.Status) string {
	switch s {
	case lore.StatusOperational:
		return Theme.StatusOperational
	case lore.StatusDamaged:
		return Theme.StatusDamaged
	case lore.StatusUpgrading:
		return Theme.StatusUpgrading
	}
	return Theme.StatusUnknown
}
