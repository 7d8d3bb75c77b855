package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// terminalSink prints pipeline progress to the terminal.
// Jobs run concurrently share one sink, so writes are serialized.
type terminalSink struct {
	mu     sync.Mutex
	out    io.Writer
	color  bool
	quiet  bool
	logger *slog.Logger
}

// newTerminalSink creates a sink writing to out.
// Colors are used only when out is a terminal and NO_COLOR is unset.
func newTerminalSink(out io.Writer, quiet bool, logger *slog.Logger) *terminalSink {
	return &terminalSink{
		out:    out,
		color:  colorEnabled(out),
		quiet:  quiet,
		logger: logger,
	}
}

// Message prints one progress line.
func (s *terminalSink) Message(msg string) {
	if s.quiet {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, s.paint(msg))
}

// Percent records the completion percentage.
// The step counter in the messages already shows progress, so it is only logged.
func (s *terminalSink) Percent(p int) {
	s.logger.Debug("progress", "percent", p)
}

// paint colors a progress line by its kind.
func (s *terminalSink) paint(msg string) string {
	if !s.color {
		return msg
	}

	var attr color.Attribute
	switch {
	case strings.Contains(msg, "[DONE]"):
		attr = color.FgGreen
	case strings.Contains(msg, "[scan]"):
		attr = color.Faint
	case strings.Contains(msg, "Summary ->"):
		attr = color.Bold
	default:
		attr = color.FgCyan
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(msg)
}

// colorEnabled reports whether w is a color-capable terminal.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
