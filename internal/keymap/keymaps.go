// Package keymap resolves key presses into editor commands through a
// per-mode trie. Multi-key sequences leave the resolver pending until they
// complete or are cancelled, and a sticky node keeps answering single keys
// until Escape.
package keymap

import "fmt"

// Mode is an editor input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeSelect
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInsert:
		return "insert"
	case ModeSelect:
		return "select"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Outcome classifies a resolution.
type Outcome int

const (
	Pending Outcome = iota
	Matched
	MatchedSequence
	NotFound
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Matched:
		return "matched"
	case MatchedSequence:
		return "matched_sequence"
	case NotFound:
		return "not_found"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the answer to one key press. Command is set for Matched,
// Sequence for MatchedSequence, Node for Pending and Keys for Cancelled.
type Result struct {
	Outcome  Outcome
	Command  Command
	Sequence []Command
	Node     *Node
	Keys     []Key
}

// Keymaps holds the per-mode tries and the resolver state.
type Keymaps struct {
	maps    map[Mode]*Node
	pending []Key
	sticky  *Node
}

// New returns a resolver over maps. The map is shared, not copied.
func New(maps map[Mode]*Node) *Keymaps {
	return &Keymaps{maps: maps}
}

// Pending returns the keys of the sequence in progress.
func (k *Keymaps) Pending() []Key {
	return append([]Key(nil), k.pending...)
}

// Sticky returns the active sticky node, if any.
func (k *Keymaps) Sticky() *Node {
	return k.sticky
}

// Root returns the trie for mode.
func (k *Keymaps) Root(mode Mode) *Node {
	return k.maps[mode]
}

// Reset drops any pending sequence and sticky node.
func (k *Keymaps) Reset() {
	k.pending = nil
	k.sticky = nil
}

// Resolve feeds one key press for mode.
func (k *Keymaps) Resolve(mode Mode, key Key) Result {
	if key == KeyEsc {
		if len(k.pending) > 0 {
			keys := k.pending
			k.pending = nil
			return Result{Outcome: Cancelled, Keys: keys}
		}
		k.sticky = nil
	}

	root := k.sticky
	if root == nil {
		root = k.maps[mode]
	}
	if root == nil {
		return Result{Outcome: NotFound}
	}

	first := key
	if len(k.pending) > 0 {
		first = k.pending[0]
	}
	trie, ok := root.Get(first)
	if !ok {
		return Result{Outcome: NotFound}
	}

	switch trie.kind {
	case KindCommand:
		return Result{Outcome: Matched, Command: trie.command}
	case KindSequence:
		return Result{Outcome: MatchedSequence, Sequence: trie.Sequence()}
	}

	k.pending = append(k.pending, key)
	found, ok := trie.node.Search(k.pending[1:])
	if !ok {
		keys := k.pending
		k.pending = nil
		return Result{Outcome: Cancelled, Keys: keys}
	}
	switch found.kind {
	case KindCommand:
		k.pending = nil
		return Result{Outcome: Matched, Command: found.command}
	case KindSequence:
		k.pending = nil
		return Result{Outcome: MatchedSequence, Sequence: found.Sequence()}
	}
	if found.node.Sticky {
		k.pending = nil
		k.sticky = found.node
	}
	return Result{Outcome: Pending, Node: found.node}
}
