package compositor

// Rect is a screen region in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Position is a cell coordinate.
type Position struct {
	Row, Col int
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Bottom is the row just past the rect.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Right is the column just past the rect.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Inset shrinks the rect by dx columns and dy rows on every side.
func (r Rect) Inset(dx, dy int) Rect {
	out := Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width - 2*dx, Height: r.Height - 2*dy}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// SplitTop cuts n rows off the top.
func (r Rect) SplitTop(n int) (Rect, Rect) {
	n = clamp(n, 0, r.Height)
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: n},
		Rect{X: r.X, Y: r.Y + n, Width: r.Width, Height: r.Height - n}
}

// SplitBottom cuts n rows off the bottom.
func (r Rect) SplitBottom(n int) (Rect, Rect) {
	n = clamp(n, 0, r.Height)
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height - n},
		Rect{X: r.X, Y: r.Bottom() - n, Width: r.Width, Height: n}
}

// SplitLeft cuts n columns off the left.
func (r Rect) SplitLeft(n int) (Rect, Rect) {
	n = clamp(n, 0, r.Width)
	return Rect{X: r.X, Y: r.Y, Width: n, Height: r.Height},
		Rect{X: r.X + n, Y: r.Y, Width: r.Width - n, Height: r.Height}
}

// Centered returns a width x height rect centred inside r, clipped to r.
func (r Rect) Centered(width, height int) Rect {
	width = clamp(width, 0, r.Width)
	height = clamp(height, 0, r.Height)
	return Rect{
		X:      r.X + (r.Width-width)/2,
		Y:      r.Y + (r.Height-height)/2,
		Width:  width,
		Height: height,
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
