package progress

import (
	"sync"
	"testing"
)

// TestOr tests nil sink substitution.
func TestOr(t *testing.T) {
	t.Parallel()

	t.Run("nil becomes Nop", func(t *testing.T) {
		t.Parallel()
		s := Or(nil)
		if _, ok := s.(Nop); !ok {
			t.Errorf("expected Nop, got %T", s)
		}
		// Must not panic.
		s.Message("ignored")
		s.Percent(50)
	})

	t.Run("non-nil sink is returned unchanged", func(t *testing.T) {
		t.Parallel()
		r := &Recorder{}
		if Or(r) != Sink(r) {
			t.Error("expected the same sink back")
		}
	})
}

// TestFuncs tests the callback adapter.
func TestFuncs(t *testing.T) {
	t.Parallel()

	var gotMsg string
	var gotPct int
	s := Funcs{
		OnMessage: func(msg string) { gotMsg = msg },
		OnPercent: func(p int) { gotPct = p },
	}
	Messagef(s, "[scan] %d/%d", 1, 2)
	s.Percent(PercentScanRaw)

	if gotMsg != "[scan] 1/2" {
		t.Errorf("got message %q", gotMsg)
	}
	if gotPct != 35 {
		t.Errorf("got percent %d", gotPct)
	}

	// Nil callbacks are skipped.
	Funcs{}.Message("x")
	Funcs{}.Percent(1)
}

// TestPrefixed tests message labelling.
func TestPrefixed(t *testing.T) {
	t.Parallel()

	r := &Recorder{}
	s := Prefixed{Prefix: "[job-a] ", Sink: r}
	s.Message("hello")
	s.Percent(PercentDone)

	msgs := r.Messages()
	if len(msgs) != 1 || msgs[0] != "[job-a] hello" {
		t.Errorf("unexpected messages %v", msgs)
	}
	pcts := r.Percents()
	if len(pcts) != 1 || pcts[0] != 100 {
		t.Errorf("unexpected percents %v", pcts)
	}
}

// TestRecorderConcurrent tests that Recorder is safe for concurrent use.
func TestRecorderConcurrent(t *testing.T) {
	t.Parallel()

	r := &Recorder{}
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Message("m")
			r.Percent(i)
		}()
	}
	wg.Wait()

	if len(r.Messages()) != 10 || len(r.Percents()) != 10 {
		t.Errorf("expected 10 of each, got %d messages and %d percents", len(r.Messages()), len(r.Percents()))
	}
}
