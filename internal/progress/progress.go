// Package progress defines the sink through which a reconciliation run
// reports what it is doing.
//
// A run emits human-readable messages (phase headers and one line per raw
// manifest scanned) and a percentage at fixed checkpoints. Callers that do
// not care pass nil; Or turns that into Nop.
package progress

import (
	"fmt"
	"sync"
)

// Checkpoints reported through Sink.Percent, in order.
const (
	PercentReadMaster = 5
	PercentScanRaw    = 35
	PercentCompare    = 65
	PercentWrite      = 85
	PercentDone       = 100
)

// Sink receives progress notifications.
// Implementations used by concurrent jobs must be safe for concurrent use.
type Sink interface {
	// Message receives a human-readable progress line.
	Message(msg string)

	// Percent receives the completion percentage (0-100).
	Percent(p int)
}

// Nop discards every notification.
type Nop struct{}

// Message implements Sink.
func (Nop) Message(string) {}

// Percent implements Sink.
func (Nop) Percent(int) {}

// Or returns s, or Nop when s is nil.
func Or(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

// Messagef formats and sends a message to s.
func Messagef(s Sink, format string, args ...any) {
	s.Message(fmt.Sprintf(format, args...))
}

// Funcs adapts plain callbacks to a Sink. Nil callbacks are skipped.
type Funcs struct {
	OnMessage func(msg string)
	OnPercent func(p int)
}

// Message implements Sink.
func (f Funcs) Message(msg string) {
	if f.OnMessage != nil {
		f.OnMessage(msg)
	}
}

// Percent implements Sink.
func (f Funcs) Percent(p int) {
	if f.OnPercent != nil {
		f.OnPercent(p)
	}
}

// Prefixed prepends a fixed label to every message of the wrapped sink.
// It is used to tell concurrent jobs apart on a shared terminal.
type Prefixed struct {
	Prefix string
	Sink   Sink
}

// Message implements Sink.
func (p Prefixed) Message(msg string) {
	Or(p.Sink).Message(p.Prefix + msg)
}

// Percent implements Sink.
func (p Prefixed) Percent(pct int) {
	Or(p.Sink).Percent(pct)
}

// Recorder keeps every notification in memory. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []string
	percents []int
}

// Message implements Sink.
func (r *Recorder) Message(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Percent implements Sink.
func (r *Recorder) Percent(p int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.percents = append(r.percents, p)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Percents returns a copy of the recorded percentages.
func (r *Recorder) Percents() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.percents...)
}
