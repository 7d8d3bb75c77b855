package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// pathKeys are attribute keys whose values are file system paths.
var pathKeys = map[string]bool{
	"path":     true,
	"file":     true,
	"dir":      true,
	"root":     true,
	"master":   true,
	"raw_root": true,
	"manifest": true,
	"output":   true,
	"report":   true,
	"config":   true,
	"db":       true,
}

// HomeMarker replaces the home directory prefix in rewritten paths.
const HomeMarker = "~"

// PathHandler wraps an slog.Handler and shortens path attributes that
// point inside the home directory. Keys listed in pathKeys and keys ending
// in "_path" or "_dir" are treated as paths; other attributes pass through.
type PathHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// home is the directory replaced by HomeMarker. Empty disables rewriting.
	home string
}

// NewPathHandler creates a PathHandler wrapping the given handler.
// If home is empty the current user's home directory is used.
// If handler is nil, slog.Default().Handler() is used.
func NewPathHandler(handler slog.Handler, home string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}
	if home != "" {
		home = filepath.Clean(home)
	}
	return &PathHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's path attributes and passes it on.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(rewritten), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// rewriteAttr rewrites a single attribute, recursing into groups.
func (h *PathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			rewritten[i] = h.rewriteAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if a.Value.Kind() != slog.KindString || !isPathKey(a.Key) {
		return a
	}
	return slog.String(a.Key, h.ShortenPath(a.Value.String()))
}

// ShortenPath replaces a leading home directory with HomeMarker.
// Paths outside the home directory are returned unchanged.
func (h *PathHandler) ShortenPath(p string) string {
	if h.home == "" || h.home == string(filepath.Separator) {
		return p
	}
	if p == h.home {
		return HomeMarker
	}
	if rest, ok := strings.CutPrefix(p, h.home+string(filepath.Separator)); ok {
		return HomeMarker + string(filepath.Separator) + rest
	}
	return p
}

// isPathKey reports whether an attribute key names a path.
func isPathKey(key string) bool {
	k := strings.ToLower(key)
	return pathKeys[k] || strings.HasSuffix(k, "_path") || strings.HasSuffix(k, "_dir")
}

// NewLogger creates a text logger that shortens home directory paths.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPathHandler(slog.NewTextHandler(w, handlerOptions(verbose)), ""))
}

// NewJSONLogger creates a JSON logger that shortens home directory paths.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPathHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), ""))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
