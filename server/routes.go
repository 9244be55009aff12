//go:build !js
// +build !js

package main

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/simukka/skyisle/colony"
	"github.com/simukka/skyisle/lore"
)

//go:embed index.html
var indexHTML []byte

// newMux wires the page, the static bundle and the JSON API.
func newMux(staticDir string, svc *lore.Service, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	static := http.FileServer(http.Dir(staticDir))

	// Serve embedded index.html at root path
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(indexHTML)
			return
		}
		// Serve other static files from disk, e.g. the compiled skyisle.js
		static.ServeHTTP(w, r)
	})

	mux.HandleFunc("/api/buildings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(colony.Buildings)
	})

	mux.Handle("/api/lore", lore.NewHandler(svc, logger))

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		archive := "cached"
		if svc.Configured() {
			archive = "online"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"archive": archive,
			"calls":   svc.Calls(),
		})
	})

	return logRequests(mux, logger)
}

// logRequests logs one line per request at debug level.
func logRequests(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(start)))
	})
}
