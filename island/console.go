//go:build js
// +build js

package island

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gopherjs/gopherjs/js"
)

var EnableDebug = false

// NewConsoleLogger returns a logger that writes to the browser console.
// Debug records are dropped unless EnableDebug is set.
func NewConsoleLogger() *slog.Logger {
	return slog.New(&consoleHandler{})
}

type consoleHandler struct {
	attrs  []slog.Attr
	prefix string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level > slog.LevelDebug || EnableDebug
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	write := func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(h.prefix)
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	method := "log"
	switch {
	case r.Level >= slog.LevelError:
		method = "error"
	case r.Level >= slog.LevelWarn:
		method = "warn"
	case r.Level < slog.LevelInfo:
		method = "debug"
	}
	js.Global.Get("console").Call(method, b.String())
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
		prefix: h.prefix,
	}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{attrs: h.attrs, prefix: h.prefix + name + "."}
}
