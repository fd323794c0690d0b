package cli

import (
	"testing"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, want := range []string{"review", "ask", "serve", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	if version != "dev" {
		t.Errorf("expected default version %q, got %q", "dev", version)
	}
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		in        string
		start     int
		end       int
		expectErr bool
	}{
		{"3:10", 3, 11, false},
		{"5:5", 5, 6, false},
		{"7", 7, 8, false},
		{"", 0, 0, true},
		{"10:3", 0, 0, true},
		{"a:b", 0, 0, true},
	}
	for _, tt := range tests {
		start, end, err := parseLines(tt.in)
		if tt.expectErr {
			if err == nil {
				t.Errorf("parseLines(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLines(%q) failed: %v", tt.in, err)
			continue
		}
		if start != tt.start || end != tt.end {
			t.Errorf("parseLines(%q) = %d,%d, want %d,%d", tt.in, start, end, tt.start, tt.end)
		}
	}
}
