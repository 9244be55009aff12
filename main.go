//go:build js
// +build js

package main

import (
	"github.com/gopherjs/gopherjs/js"
	"github.com/simukka/skyisle/audio"
	"github.com/simukka/skyisle/island"
	"github.com/simukka/skyisle/lore"
	"github.com/simukka/skyisle/webaudio"
)

func main() {
	doc := js.Global.Get("document")
	root := doc.Call("getElementById", "app")
	if root == nil || root == js.Undefined {
		root = doc.Get("body")
	}

	if q := js.Global.Get("location").Get("search").String(); q == "?debug" {
		island.EnableDebug = true
	}
	logger := island.NewConsoleLogger()

	engine := audio.NewEngine(webaudio.Open, audio.LoadConfig(), logger)
	sound := audio.NewSoundscape(engine, audio.WithLogger(logger))

	origin := js.Global.Get("location").Get("origin").String()
	app := island.NewApp(sound, lore.NewClient(origin, nil, logger), logger)
	app.Mount(root)

	// Expose a small control surface for the page and for debugging
	js.Global.Set("SkyIsle", map[string]interface{}{
		"select": func(id string) {
			app.Select(id)
		},
		"clear": func() {
			app.Clear()
		},
		"mute": func(muted bool) {
			sound.SetMuted(muted)
		},
		"notes": func() int {
			return sound.Notes()
		},
	})

	js.Global.Call("addEventListener", "beforeunload", func() {
		sound.Close()
	})

	select {}
}
