package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Text              *lipgloss.Style
	Gutter            *lipgloss.Style
	GutterActive      *lipgloss.Style
	Bufferline        *lipgloss.Style
	BufferlineActive  *lipgloss.Style
	StatusLine        *lipgloss.Style
	StatusNormal      *lipgloss.Style
	StatusInsert      *lipgloss.Style
	StatusSelect      *lipgloss.Style
	Popup             *lipgloss.Style
	PopupTitle        *lipgloss.Style
	PendingKey        *lipgloss.Style
	PendingDoc        *lipgloss.Style
	SearchPrompt      *lipgloss.Style
	SearchPlaceholder *lipgloss.Style
	Item              *lipgloss.Style
	SelectedItem      *lipgloss.Style
	ItemPath          *lipgloss.Style
	Loading           *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Cursor            *lipgloss.Style
}

var defaultStyles = Styles{
	Text: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	Gutter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	GutterActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Bold(true),
	),
	Bufferline: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")),
	),
	BufferlineActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	StatusLine: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Background(lipgloss.Color("236")),
	),
	StatusNormal: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Bold(true),
	),
	StatusInsert: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("34")).Bold(true),
	),
	StatusSelect: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("135")).Bold(true),
	),
	Popup: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("235")),
	),
	PopupTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("235")).Bold(true),
	),
	PendingKey: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Background(lipgloss.Color("235")).Bold(true),
	),
	PendingDoc: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("235")),
	),
	SearchPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	SearchPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	ItemPath: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
	),
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Plain returns a style set with no colours, used by tests that compare
// rendered output.
func Plain() *Styles {
	plain := lipgloss.NewStyle()
	s := Styles{}
	for _, field := range []**lipgloss.Style{
		&s.Text, &s.Gutter, &s.GutterActive, &s.Bufferline, &s.BufferlineActive,
		&s.StatusLine, &s.StatusNormal, &s.StatusInsert, &s.StatusSelect,
		&s.Popup, &s.PopupTitle, &s.PendingKey, &s.PendingDoc,
		&s.SearchPrompt, &s.SearchPlaceholder, &s.Item, &s.SelectedItem,
		&s.ItemPath, &s.Loading, &s.Error, &s.Info, &s.Cursor,
	} {
		*field = ptr(plain)
	}
	return &s
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
