package ui

import (
	"github.com/atomicstack/siyuan-tui/internal/compositor"
)

// View implements tea.Model. The compositor paints every layer into a
// surface; the cursor is drawn as a styled cell since the program does not
// place the terminal cursor.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := compositor.NewSurface(m.width, m.height)
	m.comp.Render(s, m.cx)
	if !m.focused {
		return s.String()
	}
	if pos, ok := m.comp.CursorPosition(m.cx); ok && m.cx.Theme != nil {
		s.Restyle(pos.Col, pos.Row, m.cx.Theme.Cursor.Render)
	}
	return s.String()
}
