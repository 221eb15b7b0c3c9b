package keymap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Key is a normalized key name in Bubble Tea's notation ("g", "G",
// "ctrl+w", "alt+x", "enter", "esc", "pgup", "f5", "space").
type Key string

const (
	KeyEsc   Key = "esc"
	KeySpace Key = "space"
	KeyEnter Key = "enter"
)

// ErrInvalidKey reports key notation that could not be parsed.
var ErrInvalidKey = errors.New("keymap: invalid key")

var namedKeys = map[string]string{
	"esc":       "esc",
	"ret":       "enter",
	"enter":     "enter",
	"space":     "space",
	"tab":       "tab",
	"backspace": "backspace",
	"del":       "delete",
	"ins":       "insert",
	"home":      "home",
	"end":       "end",
	"pageup":    "pgup",
	"pagedown":  "pgdown",
	"left":      "left",
	"right":     "right",
	"up":        "up",
	"down":      "down",
	"minus":     "-",
	"lt":        "<",
	"gt":        ">",
}

// ParseKey converts editor-style notation such as "C-w", "A-x", "S-tab",
// "ret" or "F5" into a Key. Shift on a lowercase letter yields the
// uppercase letter.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	var ctrl, alt, shift bool
	rest := s
	for len(rest) > 2 && rest[1] == '-' {
		flag := &ctrl
		switch rest[0] {
		case 'C':
		case 'A':
			flag = &alt
		case 'S':
			flag = &shift
		default:
			return "", fmt.Errorf("%w: unknown modifier in %q", ErrInvalidKey, s)
		}
		if *flag {
			return "", fmt.Errorf("%w: repeated modifier in %q", ErrInvalidKey, s)
		}
		*flag = true
		rest = rest[2:]
	}

	base, err := parseBase(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, s)
	}
	if shift {
		r := []rune(base)
		if len(r) == 1 && r[0] >= 'a' && r[0] <= 'z' {
			base = strings.ToUpper(base)
			shift = false
		}
	}

	var b strings.Builder
	if alt {
		b.WriteString("alt+")
	}
	if ctrl {
		b.WriteString("ctrl+")
	}
	if shift {
		b.WriteString("shift+")
	}
	b.WriteString(base)
	return Key(b.String()), nil
}

// MustParseKey is ParseKey that panics on error.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func parseBase(s string) (string, error) {
	if name, ok := namedKeys[s]; ok {
		return name, nil
	}
	if len(s) > 1 && (s[0] == 'F' || s[0] == 'f') {
		if n, err := strconv.Atoi(s[1:]); err == nil {
			if n < 1 || n > 24 {
				return "", fmt.Errorf("%w: function key out of range", ErrInvalidKey)
			}
			return "f" + strconv.Itoa(n), nil
		}
	}
	if len([]rune(s)) == 1 {
		if s == " " {
			return "space", nil
		}
		return s, nil
	}
	return "", ErrInvalidKey
}

// FromMsg normalizes a Bubble Tea key event into a Key.
func FromMsg(msg tea.KeyMsg) Key {
	isSpace := msg.Type == tea.KeySpace ||
		(msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] == ' ')
	if isSpace {
		if msg.Alt {
			return "alt+space"
		}
		return KeySpace
	}
	return Key(msg.String())
}

// String renders the key for display in the pending-keys popup.
func (k Key) String() string {
	return string(k)
}

// FormatKeys joins keys for the status line.
func FormatKeys(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, "")
}
