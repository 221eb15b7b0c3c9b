package keymap

// Command names an editor action. The editor owns the implementations; the
// keymap only stores which command a key sequence resolves to.
type Command struct {
	Name string
	Doc  string
}

func (c Command) String() string {
	return c.Name
}

var (
	MoveCharLeft    = Command{"move_char_left", "Move left"}
	MoveCharRight   = Command{"move_char_right", "Move right"}
	MoveLineUp      = Command{"move_line_up", "Move up"}
	MoveLineDown    = Command{"move_line_down", "Move down"}
	PageUp          = Command{"page_up", "Move page up"}
	PageDown        = Command{"page_down", "Move page down"}
	HalfPageUp      = Command{"half_page_up", "Move half page up"}
	HalfPageDown    = Command{"half_page_down", "Move half page down"}
	GotoStart       = Command{"goto_start", "Goto first line"}
	GotoEnd         = Command{"goto_end", "Goto last line"}
	GotoLineStart   = Command{"goto_line_start", "Goto line start"}
	GotoLineEnd     = Command{"goto_line_end", "Goto line end"}
	GotoNextBuffer  = Command{"goto_next_buffer", "Goto next buffer"}
	GotoPrevBuffer  = Command{"goto_previous_buffer", "Goto previous buffer"}
	CloseBuffer     = Command{"close_buffer", "Close current buffer"}
	ScrollUp        = Command{"scroll_up", "Scroll view up"}
	ScrollDown      = Command{"scroll_down", "Scroll view down"}
	AlignViewCenter = Command{"align_view_center", "Align view center"}
	AlignViewTop    = Command{"align_view_top", "Align view top"}
	AlignViewBottom = Command{"align_view_bottom", "Align view bottom"}
	NormalMode      = Command{"normal_mode", "Enter normal mode"}
	InsertMode      = Command{"insert_mode", "Enter insert mode"}
	SelectMode      = Command{"select_mode", "Enter selection mode"}
	YankSelection   = Command{"yank_selection", "Yank selected lines"}
	SearchOpen      = Command{"search", "Open search"}
	ReloadDocument  = Command{"reload_document", "Reload current document"}
	Quit            = Command{"quit", "Quit"}
)

// Commands lists every known command in a stable order.
var Commands = []Command{
	MoveCharLeft, MoveCharRight, MoveLineUp, MoveLineDown,
	PageUp, PageDown, HalfPageUp, HalfPageDown,
	GotoStart, GotoEnd, GotoLineStart, GotoLineEnd,
	GotoNextBuffer, GotoPrevBuffer, CloseBuffer,
	ScrollUp, ScrollDown, AlignViewCenter, AlignViewTop, AlignViewBottom,
	NormalMode, InsertMode, SelectMode, YankSelection,
	SearchOpen, ReloadDocument, Quit,
}

// CommandByName looks up a command by its name.
func CommandByName(name string) (Command, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
