//go:build !js
// +build !js

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/simukka/skyisle/audio"
	"github.com/simukka/skyisle/colony"
	"github.com/simukka/skyisle/lore"
)

const (
	listTop   = 4
	rowHeight = 2
	frameTime = 33 * time.Millisecond
	helpLine  = "↑/↓ move  Enter select  Esc close  m mute  q quit"
)

// bars renders a building's bob as a tiny altitude gauge.
var bars = []rune("▁▂▃▄▅▆▇█")

var (
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAccent = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan).Bold(true)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleSecret = tcell.StyleDefault.Foreground(tcell.ColorMediumPurple).Italic(true)
)

func statusStyle(s lore.Status) tcell.Style {
	switch s {
	case lore.StatusOperational:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case lore.StatusDamaged:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case lore.StatusUpgrading:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
	return styleDim
}

type loreResult struct {
	gen  int
	id   string
	lore lore.Lore
}

type panelState struct {
	building colony.Building
	lore     *lore.Lore
	loading  bool
}

type line struct {
	text  string
	style tcell.Style
}

// ui is the terminal front end. All fields are owned by the run loop.
type ui struct {
	screen   tcell.Screen
	sound    *audio.Soundscape
	src      lore.Source
	store    *settingsStore
	settings Settings
	log      *slog.Logger

	cursor     int
	interacted bool
	elapsed    float64

	marker   *gween.Tween
	markerY  float32
	reveal   *gween.Tween
	revealed float32

	panel   *panelState
	fetches int
	results chan loreResult
	done    chan struct{}
}

func newUI(screen tcell.Screen, sound *audio.Soundscape, src lore.Source, store *settingsStore, settings Settings, logger *slog.Logger) *ui {
	return &ui{
		screen:   screen,
		sound:    sound,
		src:      src,
		store:    store,
		settings: settings,
		log:      logger,
		markerY:  listTop,
		results:  make(chan loreResult, 8),
		done:     make(chan struct{}),
	}
}

// handleKey applies one key press. It returns false when the user quits.
func (u *ui) handleKey(ev *tcell.EventKey) bool {
	// the first key press is the user gesture that starts audio
	if !u.interacted {
		u.interacted = true
		u.sound.Interact()
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		u.move(-1)
	case tcell.KeyDown:
		u.move(1)
	case tcell.KeyEnter:
		u.selectCursor()
	case tcell.KeyEscape:
		u.clear()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'm':
			u.toggleMute()
		case 'k':
			u.move(-1)
		case 'j':
			u.move(1)
		case ' ':
			u.selectCursor()
		}
	}
	return true
}

func rowY(i int) float32 {
	return float32(listTop + i*rowHeight)
}

func (u *ui) move(delta int) {
	n := len(colony.Buildings)
	u.cursor = (u.cursor + delta + n) % n
	u.marker = gween.New(u.markerY, rowY(u.cursor), 0.25, ease.OutQuad)
}

func (u *ui) selectCursor() {
	b := colony.Buildings[u.cursor]
	if !u.sound.Select(b.ID) {
		return
	}

	u.fetches++
	gen := u.fetches
	u.panel = &panelState{building: b, loading: true}
	u.reveal = nil
	u.revealed = 1
	u.log.Debug("building selected", "id", b.ID)

	go func() {
		l := u.src.Lore(context.Background(), lore.RequestFor(b))
		select {
		case u.results <- loreResult{gen: gen, id: b.ID, lore: l}:
		case <-u.done:
		}
	}()
}

// apply shows fetched lore unless the selection moved on meanwhile.
func (u *ui) apply(r loreResult) {
	if r.gen != u.fetches || u.panel == nil || u.panel.building.ID != r.id {
		u.log.Debug("dropping stale lore", "building", r.id)
		return
	}
	l := r.lore
	u.panel.lore = &l
	u.panel.loading = false
	u.reveal = gween.New(0, 1, 0.6, ease.OutCubic)
	u.revealed = 0
}

func (u *ui) clear() {
	u.sound.Deselect()
	u.fetches++
	u.panel = nil
	u.reveal = nil
}

func (u *ui) toggleMute() {
	u.settings.Muted = !u.settings.Muted
	u.sound.SetMuted(u.settings.Muted)
	u.store.Save(u.settings)
}

// update advances the animations by dt seconds.
func (u *ui) update(dt float64) {
	u.elapsed += dt
	if u.marker != nil {
		y, finished := u.marker.Update(float32(dt))
		u.markerY = y
		if finished {
			u.marker = nil
		}
	}
	if u.reveal != nil {
		v, finished := u.reveal.Update(float32(dt))
		u.revealed = v
		if finished {
			u.reveal = nil
			u.revealed = 1
		}
	}
}

func (u *ui) draw() {
	u.screen.Clear()
	width, height := u.screen.Size()

	drawText(u.screen, 2, 0, "SKY ISLE", styleTitle)
	drawText(u.screen, 2, 1, "Colony Sector 7 // Select a structure to access archives.", styleDim)

	selected := u.sound.Selected()
	for i, b := range colony.Buildings {
		style := styleText
		if b.ID == selected {
			style = styleAccent
		}
		y := int(rowY(i))
		u.screen.SetContent(4, y, altitude(b, u.elapsed), nil, styleDim)
		drawText(u.screen, 6, y, b.Name, style)
	}
	drawText(u.screen, 2, int(math.Round(float64(u.markerY))), "▸", styleAccent)

	if u.panel != nil {
		x := width / 2
		if x < 36 {
			x = 36
		}
		lines := panelLines(u.panel, width-x-2)
		shown := int(math.Ceil(float64(u.revealed) * float64(len(lines))))
		for i := 0; i < shown && i < len(lines); i++ {
			drawText(u.screen, x, 1+i, lines[i].text, lines[i].style)
		}
	} else {
		drawText(u.screen, 2, height-3, "Select a building to explore", styleDim)
	}

	status := fmt.Sprintf("♪ %d notes", u.sound.Notes())
	if u.settings.Muted {
		status = "♪ muted"
	} else if !u.sound.Running() {
		status = "♪ silent"
	}
	drawText(u.screen, 2, height-1, helpLine, styleDim)
	drawText(u.screen, width-len([]rune(status))-2, height-1, status, styleDim)

	u.screen.Show()
}

// altitude maps a building's bob offset onto a bar glyph.
func altitude(b colony.Building, t float64) rune {
	// BobOffset stays within [-0.1, 0.1]
	idx := int(math.Round((b.BobOffset(t) + 0.1) / 0.2 * float64(len(bars)-1)))
	if idx < 0 {
		idx = 0
	} else if idx >= len(bars) {
		idx = len(bars) - 1
	}
	return bars[idx]
}

// panelLines lays out the info panel for a column of the given width.
func panelLines(p *panelState, width int) []line {
	if width < 20 {
		width = 20
	}
	out := []line{
		{strings.ToUpper(p.building.Name), styleAccent},
		{"ID: " + strings.ToUpper(p.building.ID), styleDim},
		{"", styleText},
	}

	switch {
	case p.loading:
		out = append(out, line{"DECRYPTING ARCHIVES...", styleAccent})
	case p.lore == nil:
		out = append(out, line{"No data available.", styleDim})
	default:
		out = append(out,
			line{"STATUS: " + strings.ToUpper(string(p.lore.Status)), statusStyle(p.lore.Status)},
			line{"", styleText},
			line{"LOG ENTRY", styleDim})
		for _, s := range wrap(p.lore.Description, width) {
			out = append(out, line{s, styleText})
		}
		out = append(out, line{"", styleText}, line{"CLASSIFIED RUMOR", styleSecret})
		for _, s := range wrap(`"`+p.lore.Secret+`"`, width) {
			out = append(out, line{s, styleSecret})
		}
		out = append(out,
			line{"", styleText},
			line{"ENERGY OUTPUT  98.4%", styleText},
			line{"PERSONNEL      1,240", styleText})
	}
	return out
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	var (
		out []string
		cur []rune
	)
	for _, w := range strings.Fields(s) {
		word := []rune(w)
		if len(cur) > 0 && len(cur)+1+len(word) > width {
			out = append(out, string(cur))
			cur = cur[:0]
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, word...)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// run drives input, lore results and animation until the user quits.
func (u *ui) run() {
	defer close(u.done)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	u.draw()
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !u.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				u.screen.Sync()
			}

		case r := <-u.results:
			u.apply(r)

		case now := <-ticker.C:
			u.update(now.Sub(last).Seconds())
			last = now
			u.draw()
		}
	}
}
