package keymap

// Default returns the built-in keymaps for every mode.
func Default() map[Mode]*Node {
	movement := []Binding{
		Bind("h|left", Cmd(MoveCharLeft)),
		Bind("l|right", Cmd(MoveCharRight)),
		Bind("k|up", Cmd(MoveLineUp)),
		Bind("j|down", Cmd(MoveLineDown)),
		Bind("pageup|C-b", Cmd(PageUp)),
		Bind("pagedown|C-f", Cmd(PageDown)),
		Bind("C-u", Cmd(HalfPageUp)),
		Bind("C-d", Cmd(HalfPageDown)),
		Bind("home", Cmd(GotoLineStart)),
		Bind("end", Cmd(GotoLineEnd)),
		Bind("G", Cmd(GotoEnd)),
	}

	gotoNode := func() *Node {
		return MustNode("Goto",
			Bind("g", Cmd(GotoStart)),
			Bind("e", Cmd(GotoEnd)),
			Bind("h", Cmd(GotoLineStart)),
			Bind("l", Cmd(GotoLineEnd)),
			Bind("n", Cmd(GotoNextBuffer)),
			Bind("p", Cmd(GotoPrevBuffer)),
		)
	}
	viewBindings := func() []Binding {
		return []Binding{
			Bind("z|c", Cmd(AlignViewCenter)),
			Bind("t", Cmd(AlignViewTop)),
			Bind("b", Cmd(AlignViewBottom)),
			Bind("k|up", Cmd(ScrollUp)),
			Bind("j|down", Cmd(ScrollDown)),
		}
	}

	normal := append([]Binding{}, movement...)
	normal = append(normal,
		Bind("g", Sub(gotoNode())),
		Bind("i", Cmd(InsertMode)),
		Bind("v", Cmd(SelectMode)),
		Bind("V", Seq(GotoLineStart, SelectMode, GotoLineEnd)),
		Bind("space|/", Cmd(SearchOpen)),
		Bind("z", Sub(MustNode("View", viewBindings()...))),
		Bind("Z", Sub(Sticky(MustNode("View", viewBindings()...)))),
		Bind("C-r", Cmd(ReloadDocument)),
		Bind("C-w", Cmd(CloseBuffer)),
		Bind("q", Cmd(Quit)),
		Bind("esc", Cmd(NormalMode)),
	)

	sel := append([]Binding{}, movement...)
	sel = append(sel,
		Bind("g", Sub(gotoNode())),
		Bind("y", Cmd(YankSelection)),
		Bind("v|esc", Cmd(NormalMode)),
	)

	insert := []Binding{
		Bind("left", Cmd(MoveCharLeft)),
		Bind("right", Cmd(MoveCharRight)),
		Bind("up", Cmd(MoveLineUp)),
		Bind("down", Cmd(MoveLineDown)),
		Bind("esc", Cmd(NormalMode)),
	}

	return map[Mode]*Node{
		ModeNormal: MustNode("normal", normal...),
		ModeSelect: MustNode("select", sel...),
		ModeInsert: MustNode("insert", insert...),
	}
}
