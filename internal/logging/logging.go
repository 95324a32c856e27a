// Package logging builds the structured logger shared by the CLI and the
// bundle service.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/linkbundle/linkbundle/internal/branding"
)

// ParseLevel maps a level name to a slog.Level. Unknown names yield warn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns a text logger writing to w at level, tagged with component.
func New(w io.Writer, level slog.Level, component string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("system", branding.CLIName()),
		slog.String("component", component),
	)
}
