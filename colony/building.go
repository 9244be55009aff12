package colony

import (
	"math"
	"strconv"
)

// BuildingType classifies a structure on the island.
type BuildingType string

const (
	Tower   BuildingType = "TOWER"
	Domes   BuildingType = "DOMES"
	Factory BuildingType = "FACTORY"
	Port    BuildingType = "PORT"
	Hub     BuildingType = "HUB"
)

// Vec3 is a position, rotation (radians) or per-axis scale.
type Vec3 [3]float64

// Building is one selectable structure of the colony.
type Building struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Type            BuildingType `json:"type"`
	Position        Vec3         `json:"position"`
	Rotation        *Vec3        `json:"rotation,omitempty"`
	Color           string       `json:"color"`
	Scale           *Vec3        `json:"scale,omitempty"`
	BaseDescription string       `json:"baseDescription"`
}

func uniform(s float64) *Vec3 {
	return &Vec3{s, s, s}
}

// Buildings is the constant dataset shown on the island, in display order.
var Buildings = []Building{
	{
		ID:              "b1",
		Name:            "The Astral Spire",
		Type:            Tower,
		Position:        Vec3{0, 4, 0},
		Color:           "#60A5FA",
		Scale:           uniform(1),
		BaseDescription: "The central communication tower connecting the island to the Galactic Web.",
	},
	{
		ID:              "b2",
		Name:            "Bio-Domes Alpha",
		Type:            Domes,
		Position:        Vec3{5, 1, 4},
		Color:           "#34D399",
		Scale:           uniform(0.8),
		BaseDescription: "Contains the last remaining flora samples from Old Earth.",
	},
	{
		ID:              "b3",
		Name:            "Quantum Foundry",
		Type:            Factory,
		Position:        Vec3{-4, 1.5, 3},
		Rotation:        &Vec3{0, math.Pi / 4, 0},
		Color:           "#F87171",
		Scale:           &Vec3{1.2, 1, 1},
		BaseDescription: "Processes stardust into usable energy cells.",
	},
	{
		ID:              "b4",
		Name:            "Sky Harbor",
		Type:            Port,
		Position:        Vec3{3, 0.5, -5},
		Rotation:        &Vec3{0, -math.Pi / 6, 0},
		Color:           "#FBBF24",
		Scale:           uniform(1),
		BaseDescription: "Docking bay for incoming supply drones and star-skiffs.",
	},
	{
		ID:              "b5",
		Name:            "The Archive Core",
		Type:            Hub,
		Position:        Vec3{-3, 1, -3},
		Color:           "#A78BFA",
		Scale:           uniform(0.9),
		BaseDescription: "A secure vault storing the history of the colony.",
	},
}

// Lookup finds a building by id.
func Lookup(id string) (Building, bool) {
	for _, b := range Buildings {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}

// BobPhase is the per-building phase offset of the floating animation.
// Ids are read as hex ("b1" = 177) so neighbouring buildings drift out of step.
// Ids that do not parse get phase 0.
func (b Building) BobPhase() float64 {
	n, err := strconv.ParseInt(b.ID, 16, 64)
	if err != nil {
		return 0
	}
	return float64(n)
}

// BobOffset returns the vertical displacement at t seconds.
func (b Building) BobOffset(t float64) float64 {
	return math.Sin(t*2+b.BobPhase()) * 0.1
}
