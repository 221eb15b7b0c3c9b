package compositor

import (
	"strings"
	"testing"
)

func TestSurfaceSetStringOverlaysAndClips(t *testing.T) {
	s := NewSurface(6, 2)
	s.SetString(0, 0, "abcdef", 6)
	s.SetString(2, 0, "XY", 6)
	if got := s.PlainRow(0); got != "abXYef" {
		t.Fatalf("unexpected overlay %q", got)
	}
	if n := s.SetString(4, 1, "long text", 10); n != 2 {
		t.Fatalf("expected clip to surface edge, painted %d", n)
	}
	if got := s.PlainRow(1); got != "    lo" {
		t.Fatalf("unexpected clipped row %q", got)
	}
}

func TestSurfaceWideRunes(t *testing.T) {
	s := NewSurface(6, 1)
	s.SetString(1, 0, "你好", 6)
	if got := s.PlainRow(0); got != " 你好 " {
		t.Fatalf("unexpected wide rune row %q", got)
	}
}

func TestSurfaceOutOfRangeIsNoop(t *testing.T) {
	s := NewSurface(3, 1)
	if s.SetString(0, 5, "x", 3) != 0 || s.SetString(-1, 0, "x", 3) != 0 {
		t.Fatal("expected out-of-range writes to paint nothing")
	}
	if s.Row(9) != "" {
		t.Fatal("expected empty row out of range")
	}
}

func TestSurfaceRestyleKeepsGlyph(t *testing.T) {
	s := NewSurface(4, 1)
	s.SetString(0, 0, "abcd", 4)
	s.Restyle(2, 0, func(strs ...string) string { return strings.ToUpper(strings.Join(strs, "")) })
	if got := s.PlainRow(0); got != "abCd" {
		t.Fatalf("unexpected restyled row %q", got)
	}
	s.Restyle(9, 0, func(...string) string { return "x" })
	if got := s.PlainRow(0); got != "abCd" {
		t.Fatalf("out-of-range restyle changed the row: %q", got)
	}
}

func TestRectHelpers(t *testing.T) {
	r := Rect{Width: 20, Height: 10}
	top, rest := r.SplitTop(1)
	if top.Height != 1 || rest.Y != 1 || rest.Height != 9 {
		t.Fatalf("unexpected split %+v %+v", top, rest)
	}
	body, status := rest.SplitBottom(1)
	if status.Y != 9 || body.Height != 8 {
		t.Fatalf("unexpected bottom split %+v %+v", body, status)
	}
	c := r.Centered(10, 4)
	if c != (Rect{X: 5, Y: 3, Width: 10, Height: 4}) {
		t.Fatalf("unexpected centred rect %+v", c)
	}
	if r.Centered(50, 50) != r {
		t.Fatal("expected centred rect clipped to parent")
	}
	if !r.Inset(20, 0).Empty() {
		t.Fatal("expected over-inset rect to be empty")
	}
}
