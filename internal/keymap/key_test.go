package keymap

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"g", "g"},
		{"G", "G"},
		{"S-g", "G"},
		{"C-w", "ctrl+w"},
		{"A-x", "alt+x"},
		{"A-C-x", "alt+ctrl+x"},
		{"S-tab", "shift+tab"},
		{"ret", "enter"},
		{"esc", "esc"},
		{"space", "space"},
		{"pageup", "pgup"},
		{"F5", "f5"},
		{"F24", "f24"},
		{"minus", "-"},
		{"-", "-"},
		{"C--", "ctrl+-"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if err != nil {
				t.Fatalf("ParseKey(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseKeyRejectsBadNotation(t *testing.T) {
	for _, in := range []string{"", "C-C-x", "X-a", "F25", "F0", "bogus", "C-"} {
		if _, err := ParseKey(in); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ParseKey(%q) error = %v, want ErrInvalidKey", in, err)
		}
	}
}

func TestFromMsgNormalizesSpace(t *testing.T) {
	if got := FromMsg(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}); got != KeySpace {
		t.Fatalf("expected space, got %q", got)
	}
	if got := FromMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}); got != "g" {
		t.Fatalf("expected g, got %q", got)
	}
	if got := FromMsg(tea.KeyMsg{Type: tea.KeyEsc}); got != KeyEsc {
		t.Fatalf("expected esc, got %q", got)
	}
	if got := FromMsg(tea.KeyMsg{Type: tea.KeyCtrlW}); got != "ctrl+w" {
		t.Fatalf("expected ctrl+w, got %q", got)
	}
}
