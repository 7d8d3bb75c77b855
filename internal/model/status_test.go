package model

import "testing"

// TestJoinStatus tests composite status construction.
func TestJoinStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		tokens   []Status
		expected Status
	}{
		{"single token", []Status{StatusDuplicateInMaster}, "DUPLICATE_IN_MASTER"},
		{"both duplicate tokens", []Status{StatusDuplicateInMaster, StatusDuplicateInRaw}, "DUPLICATE_IN_MASTER;DUPLICATE_IN_RAW"},
		{"empty tokens are skipped", []Status{"", StatusDuplicateInRaw}, "DUPLICATE_IN_RAW"},
		{"no tokens", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := JoinStatus(tc.tokens...); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestStatusTokens tests splitting of composite statuses.
func TestStatusTokens(t *testing.T) {
	t.Parallel()

	t.Run("composite splits into two tokens", func(t *testing.T) {
		t.Parallel()
		tokens := Status("DUPLICATE_IN_MASTER;DUPLICATE_IN_RAW").Tokens()
		if len(tokens) != 2 {
			t.Fatalf("expected 2 tokens, got %d", len(tokens))
		}
		if tokens[0] != StatusDuplicateInMaster || tokens[1] != StatusDuplicateInRaw {
			t.Errorf("unexpected tokens %v", tokens)
		}
	})

	t.Run("atomic status is one token", func(t *testing.T) {
		t.Parallel()
		tokens := StatusMatch.Tokens()
		if len(tokens) != 1 || tokens[0] != StatusMatch {
			t.Errorf("unexpected tokens %v", tokens)
		}
	})

	t.Run("empty status has no tokens", func(t *testing.T) {
		t.Parallel()
		if tokens := Status("").Tokens(); len(tokens) != 0 {
			t.Errorf("expected no tokens, got %v", tokens)
		}
	})

	t.Run("IsDuplicate detects either flag", func(t *testing.T) {
		t.Parallel()
		if !Status("DUPLICATE_IN_MASTER;DUPLICATE_IN_RAW").IsDuplicate() {
			t.Error("expected composite to be a duplicate")
		}
		if !StatusDuplicateInRaw.IsDuplicate() {
			t.Error("expected DUPLICATE_IN_RAW to be a duplicate")
		}
		if StatusMismatch.IsDuplicate() {
			t.Error("MISMATCH is not a duplicate")
		}
	})
}

// TestParseKeyMode tests key mode parsing.
func TestParseKeyMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected KeyMode
		wantErr  bool
	}{
		{"", KeyModeBasename, false},
		{"basename", KeyModeBasename, false},
		{"path", KeyModePath, false},
		{"fullpath", "", true},
	}

	for _, tc := range testCases {
		t.Run("input "+tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKeyMode(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}
