package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestDiscover tests raw manifest discovery.
func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("finds manifests at any depth in sorted order", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		paths := []string{
			filepath.Join(root, "z", "MD5.txt"),
			filepath.Join(root, "a", "deep", "er", "MD5.txt"),
			filepath.Join(root, "MD5.txt"),
			filepath.Join(root, "a", "MD5.txt"),
		}
		for _, p := range paths {
			writeFile(t, p, hashA+"  x.bin")
		}
		// Near misses that must be ignored.
		writeFile(t, filepath.Join(root, "a", "md5.txt"), hashA+"  x.bin")
		writeFile(t, filepath.Join(root, "a", "MD5.txt.bak"), hashA+"  x.bin")
		if err := os.MkdirAll(filepath.Join(root, "b", "MD5.txt"), 0750); err != nil {
			t.Fatal(err)
		}

		got, err := Discover(root, "MD5.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{
			filepath.Join(root, "MD5.txt"),
			filepath.Join(root, "a", "MD5.txt"),
			filepath.Join(root, "a", "deep", "er", "MD5.txt"),
			filepath.Join(root, "z", "MD5.txt"),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("discovery mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("order is stable across calls", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		for _, d := range []string{"c", "b", "a", "b/x"} {
			writeFile(t, filepath.Join(root, d, "MD5.txt"), hashA+"  x.bin")
		}

		first, err := Discover(root, "MD5.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Discover(root, "MD5.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("order changed between calls (-first +second):\n%s", diff)
		}
	})

	t.Run("missing root is an error", func(t *testing.T) {
		t.Parallel()
		if _, err := Discover(filepath.Join(t.TempDir(), "missing"), "MD5.txt"); err == nil {
			t.Error("expected error for missing root")
		}
	})
}
