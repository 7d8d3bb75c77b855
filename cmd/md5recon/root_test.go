package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "md5recon" {
			t.Errorf("expected use 'md5recon', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose and log-json flags", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
		if cmd.PersistentFlags().Lookup("log-json") == nil {
			t.Error("expected log-json flag")
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"run": false, "history": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Use]; ok {
				want[sub.Use] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("text logger hides debug unless verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		setupLogger(&buf, false, false).Debug("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}

		setupLogger(&buf, true, false).Debug("shown")
		if !strings.Contains(buf.String(), "shown") {
			t.Errorf("expected debug output, got %q", buf.String())
		}
	})

	t.Run("json logger writes json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		setupLogger(&buf, false, true).Warn("careful")
		if !strings.HasPrefix(buf.String(), "{") {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})
}
