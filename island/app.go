//go:build js
// +build js

package island

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/gopherjs/gopherjs/js"
	"github.com/simukka/skyisle/audio"
	"github.com/simukka/skyisle/colony"
	"github.com/simukka/skyisle/lore"
)

// App owns the overlay DOM and routes user input to the soundscape.
type App struct {
	sound *audio.Soundscape
	lore  lore.Source
	log   *slog.Logger

	doc   *js.Object
	items map[string]*js.Object
	panel *js.Object
	hint  *js.Object

	cursor  int
	fetches int // bumped per selection; stale lore is dropped
}

// NewApp creates the overlay. src may be nil, in which case the panel shows
// the cached fallback.
func NewApp(sound *audio.Soundscape, src lore.Source, logger *slog.Logger) *App {
	if logger == nil {
		logger = NewConsoleLogger()
	}
	return &App{
		sound:  sound,
		lore:   src,
		log:    logger,
		doc:    js.Global.Get("document"),
		items:  make(map[string]*js.Object),
		cursor: -1,
	}
}

// Mount builds the overlay inside root and starts listening for input.
func (a *App) Mount(root *js.Object) {
	header := a.el("div", "island-header", `
		position: absolute; top: 24px; left: 24px; z-index: 10; pointer-events: none;
	`)
	title := a.el("h1", "", "margin: 0; color: #fff; font-size: 48px; font-family: "+Theme.HeaderFont+";")
	title.Set("textContent", Title)
	subtitle := a.el("p", "", "margin: 8px 0 0; color: #bfdbfe; max-width: 20rem; font-family: "+Theme.BodyFont+";")
	subtitle.Set("textContent", Subtitle)
	header.Call("appendChild", title)
	header.Call("appendChild", subtitle)

	list := a.el("ul", "island-buildings", `
		position: absolute; left: 24px; bottom: 96px; z-index: 10;
		list-style: none; margin: 0; padding: 0;
	`)
	for _, b := range colony.Buildings {
		list.Call("appendChild", a.item(b))
	}

	a.panel = a.el("aside", "island-panel", `
		position: absolute; top: 0; right: 0; bottom: 0; width: 24rem; max-width: 100%;
		box-sizing: border-box; padding: 32px; z-index: 10; overflow-y: auto; display: none;
		background: `+Theme.PanelBackground+`; border-left: 1px solid `+Theme.PanelBorder+`;
		box-shadow: `+Theme.PanelGlow+`; color: `+Theme.TextPrimary+`; font-family: `+Theme.BodyFont+`;
	`)

	a.hint = a.el("div", "island-hint", `
		position: absolute; bottom: 40px; left: 50%; transform: translateX(-50%);
		color: rgba(255, 255, 255, 0.5); font-family: `+Theme.BodyFont+`; pointer-events: none;
	`)
	a.hint.Set("textContent", Hint)

	for _, n := range []*js.Object{header, list, a.panel, a.hint} {
		root.Call("appendChild", n)
	}

	a.setupInput()
	js.Global.Call("requestAnimationFrame", a.animate)
}

func (a *App) el(tag, id, css string) *js.Object {
	n := a.doc.Call("createElement", tag)
	if id != "" {
		n.Set("id", id)
	}
	n.Get("style").Set("cssText", css)
	return n
}

func (a *App) item(b colony.Building) *js.Object {
	li := a.el("li", "building-"+b.ID, `
		margin: 6px 0; padding: 6px 12px; cursor: pointer; user-select: none;
		border-left: 2px solid transparent; color: `+Theme.ItemColor+`; font-family: `+Theme.BodyFont+`;
	`)
	li.Set("textContent", b.Name)

	id := b.ID
	li.Call("addEventListener", "click", func(e *js.Object) {
		e.Call("stopPropagation")
		a.Select(id)
	})
	li.Call("addEventListener", "mouseenter", func() {
		if a.sound.Selected() != id {
			li.Get("style").Set("color", Theme.ItemHover)
		}
	})
	li.Call("addEventListener", "mouseleave", func() {
		a.paintItem(id)
	})

	a.items[id] = li
	return li
}

func (a *App) paintItem(id string) {
	li := a.items[id]
	if li == nil {
		return
	}
	style := li.Get("style")
	if a.sound.Selected() == id {
		style.Set("color", Theme.ItemSelected)
		style.Set("borderLeftColor", Theme.ItemSelected)
	} else {
		style.Set("color", Theme.ItemColor)
		style.Set("borderLeftColor", "transparent")
	}
}

func (a *App) paintAll() {
	for id := range a.items {
		a.paintItem(id)
	}
}

// Select opens the panel for id and fetches its lore. Re-selecting the
// current building does nothing.
func (a *App) Select(id string) {
	b, ok := colony.Lookup(id)
	if !ok {
		a.log.Warn("unknown building", "id", id)
		return
	}
	if !a.sound.Select(id) {
		return
	}
	for i, cand := range colony.Buildings {
		if cand.ID == id {
			a.cursor = i
		}
	}
	a.paintAll()
	a.hint.Get("style").Set("display", "none")

	a.fetches++
	gen := a.fetches
	a.render(PanelData{Building: b, Loading: true})

	if a.lore == nil {
		l := lore.Fallback(lore.RequestFor(b), lore.ErrNoCredential)
		a.render(PanelData{Building: b, Lore: &l})
		return
	}

	// net/http blocks on fetch, so the request runs off the event callback
	go func() {
		l := a.lore.Lore(context.Background(), lore.RequestFor(b))
		if gen != a.fetches || a.sound.Selected() != id {
			a.log.Debug("dropping stale lore", "building", id)
			return
		}
		a.render(PanelData{Building: b, Lore: &l})
	}()
}

// Clear closes the panel and deselects silently.
func (a *App) Clear() {
	a.sound.Deselect()
	a.fetches++
	a.panel.Get("style").Set("display", "none")
	a.hint.Get("style").Set("display", "block")
	a.paintAll()
}

func (a *App) render(d PanelData) {
	html, err := RenderPanel(d)
	if err != nil {
		a.log.Error("panel render failed", "error", err)
		html = "<p>No data available.</p>"
	}
	a.panel.Set("innerHTML", html)
	a.panel.Get("style").Set("display", "block")

	if btn := a.doc.Call("getElementById", "panel-close"); btn != nil && btn != js.Undefined {
		btn.Call("addEventListener", "click", func() { a.Clear() })
	}
}

// setupInput wires the user gestures: any pointer or key press starts the
// soundscape, keys drive the list.
func (a *App) setupInput() {
	win := js.Global
	win.Call("addEventListener", "pointerdown", func() {
		a.sound.Interact()
	})
	win.Call("addEventListener", "keydown", func(event *js.Object) {
		a.sound.Interact()

		action := TranslateKeyCode(event.Get("keyCode").Int())
		switch action {
		case ActionNone:
			return
		case ActionPrev, ActionNext:
			a.cursor = Step(a.cursor, len(colony.Buildings), action)
			a.Select(colony.Buildings[a.cursor].ID)
		case ActionSelect:
			if a.cursor >= 0 {
				a.Select(colony.Buildings[a.cursor].ID)
			}
		case ActionClear:
			a.Clear()
		case ActionMute:
			a.sound.SetMuted(!a.sound.Muted())
			a.log.Info("mute toggled", "muted", a.sound.Muted())
		}
		event.Call("preventDefault")
	})
}

// animate bobs each list entry with its building's phase.
func (a *App) animate(ts float64) {
	js.Global.Call("requestAnimationFrame", a.animate)

	t := ts / 1000
	for _, b := range colony.Buildings {
		li := a.items[b.ID]
		if li == nil {
			continue
		}
		dy := -b.BobOffset(t) * Theme.ItemBobPixels
		li.Get("style").Set("transform", "translateY("+strconv.FormatFloat(dy, 'f', 2, 64)+"px)")
	}
}
