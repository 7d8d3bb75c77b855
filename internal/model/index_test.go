package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestHashIndex tests HashIndex accumulation and projection.
func TestHashIndex(t *testing.T) {
	t.Parallel()

	t.Run("keeps repeats in encounter order", func(t *testing.T) {
		t.Parallel()
		idx := NewHashIndex()
		idx.Add("a.bin", "h1")
		idx.Add("a.bin", "h1")
		idx.Add("a.bin", "h2")

		if diff := cmp.Diff([]string{"h1", "h1", "h2"}, idx.Hashes("a.bin")); diff != "" {
			t.Errorf("Hashes mismatch (-want +got):\n%s", diff)
		}
		if idx.Records() != 3 {
			t.Errorf("expected 3 records, got %d", idx.Records())
		}
	})

	t.Run("Unique preserves first occurrence", func(t *testing.T) {
		t.Parallel()
		idx := NewHashIndex()
		for _, h := range []string{"h2", "h1", "h2", "h1", "h3"} {
			idx.Add("a.bin", h)
		}
		if diff := cmp.Diff([]string{"h2", "h1", "h3"}, idx.Unique("a.bin")); diff != "" {
			t.Errorf("Unique mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown names", func(t *testing.T) {
		t.Parallel()
		idx := NewHashIndex()
		if idx.Has("missing") {
			t.Error("expected Has to be false")
		}
		if idx.Hashes("missing") != nil {
			t.Error("expected nil hashes")
		}
		if got := idx.Unique("missing"); len(got) != 0 {
			t.Errorf("expected empty unique list, got %v", got)
		}
	})

	t.Run("Names are sorted", func(t *testing.T) {
		t.Parallel()
		idx := NewHashIndex()
		idx.Add("c", "x")
		idx.Add("a", "x")
		idx.Add("B", "x")
		if diff := cmp.Diff([]string{"B", "a", "c"}, idx.Names()); diff != "" {
			t.Errorf("Names mismatch (-want +got):\n%s", diff)
		}
		if idx.Len() != 3 {
			t.Errorf("expected Len 3, got %d", idx.Len())
		}
	})

	t.Run("Hashes returns a copy", func(t *testing.T) {
		t.Parallel()
		idx := NewHashIndex()
		idx.Add("a", "h1")
		got := idx.Hashes("a")
		got[0] = "changed"
		if idx.Hashes("a")[0] != "h1" {
			t.Error("index was mutated through returned slice")
		}
	})
}

// TestProvenanceIndex tests provenance recording.
func TestProvenanceIndex(t *testing.T) {
	t.Parallel()

	idx := NewProvenanceIndex()
	idx.Add("a.bin", "/raw/z")
	idx.Add("a.bin", "/raw/b")
	idx.Add("a.bin", "/raw/z")

	t.Run("Locations are distinct and sorted", func(t *testing.T) {
		t.Parallel()
		if diff := cmp.Diff([]string{"/raw/b", "/raw/z"}, idx.Locations("a.bin")); diff != "" {
			t.Errorf("Locations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Count keeps multiplicity", func(t *testing.T) {
		t.Parallel()
		if idx.Count("a.bin") != 3 {
			t.Errorf("expected 3, got %d", idx.Count("a.bin"))
		}
	})

	t.Run("unknown name has no locations", func(t *testing.T) {
		t.Parallel()
		if got := idx.Locations("none"); len(got) != 0 {
			t.Errorf("expected no locations, got %v", got)
		}
	})
}
