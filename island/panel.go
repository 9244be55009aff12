// Package island is the browser overlay: a building list, an info panel fed
// by lore, and the gesture hooks that start the soundscape.
package island

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	"github.com/simukka/skyisle/colony"
	"github.com/simukka/skyisle/lore"
)

const (
	// Title and Subtitle head the overlay.
	Title    = "SKY ISLE"
	Subtitle = "Colony Sector 7 // Select a structure to access archives."
	// Hint is shown while nothing is selected.
	Hint = "Click on a building to explore"
)

// Stat is a fixed readout shown under the lore.
type Stat struct {
	Label string
	Value string
}

// Stats are the readouts every building panel shows.
var Stats = []Stat{
	{Label: "Energy Output", Value: "98.4%"},
	{Label: "Personnel", Value: "1,240"},
}

// PanelData holds everything the info panel template renders.
type PanelData struct {
	Building colony.Building
	Lore     *lore.Lore
	Loading  bool
}

// ID is the upper-cased building id shown under the name.
func (d PanelData) ID() string {
	return strings.ToUpper(d.Building.ID)
}

// StatusColor is the badge colour for the lore status.
func (d PanelData) StatusColor() string {
	if d.Lore == nil {
		return Theme.StatusUnknown
	}
	return StatusColor(d.Lore.Status)
}

// Theme exposes the styling table to the template.
func (PanelData) Theme() interface{} {
	return Theme
}

// Stats exposes the fixed readouts to the template.
func (PanelData) Stats() []Stat {
	return Stats
}

//go:embed panel.gohtml
var panelHtml string

var panelTmpl = template.Must(template.New("panel").Parse(panelHtml))

// RenderPanel renders the info panel body for d.
func RenderPanel(d PanelData) (string, error) {
	var buf bytes.Buffer
	if err := panelTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
