package lore

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/simukka/skyisle/colony"
)

// Handler serves GET /api/lore?id=<building id>.
type Handler struct {
	src Source
	log *slog.Logger
}

// NewHandler creates a handler backed by src.
func NewHandler(src Source, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{src: src, log: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := r.URL.Query().Get("id")
	b, ok := colony.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown building")
		return
	}

	l := h.src.Lore(r.Context(), RequestFor(b))
	h.log.Debug("lore served", "building", id, "status", l.Status)
	json.NewEncoder(w).Encode(l)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
