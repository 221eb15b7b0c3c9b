package keymap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateBinding is returned when a node binds the same key twice.
var ErrDuplicateBinding = errors.New("keymap: duplicate binding")

// Kind discriminates the variants of KeyTrie.
type Kind int

const (
	KindCommand Kind = iota
	KindSequence
	KindNode
)

// KeyTrie is what a key sequence resolves to: a single command, a sequence
// of commands run in order, or a node awaiting more keys.
type KeyTrie struct {
	kind     Kind
	command  Command
	sequence []Command
	node     *Node
}

// Cmd binds a single command.
func Cmd(c Command) KeyTrie {
	return KeyTrie{kind: KindCommand, command: c}
}

// Seq binds commands run one after another.
func Seq(cmds ...Command) KeyTrie {
	return KeyTrie{kind: KindSequence, sequence: append([]Command(nil), cmds...)}
}

// Sub binds a nested node.
func Sub(n *Node) KeyTrie {
	return KeyTrie{kind: KindNode, node: n}
}

func (t KeyTrie) Kind() Kind { return t.kind }
func (t KeyTrie) Command() Command { return t.command }
func (t KeyTrie) Sequence() []Command { return append([]Command(nil), t.sequence...) }
func (t KeyTrie) Node() *Node { return t.node }

// Describe is the text shown next to the key in the pending-keys popup.
func (t KeyTrie) Describe() string {
	switch t.kind {
	case KindCommand:
		if t.command.Doc != "" {
			return t.command.Doc
		}
		return t.command.Name
	case KindSequence:
		names := make([]string, len(t.sequence))
		for i, c := range t.sequence {
			names[i] = c.Name
		}
		return "[" + strings.Join(names, ", ") + "]"
	case KindNode:
		return t.node.Label
	}
	return ""
}

// Binding pairs key notation with what it resolves to. Key may list
// alternatives separated by "|", e.g. "h|left".
type Binding struct {
	Key  string
	Trie KeyTrie
}

// Bind is shorthand for a Binding literal.
func Bind(key string, t KeyTrie) Binding {
	return Binding{Key: key, Trie: t}
}

// Entry is one parsed binding of a node.
type Entry struct {
	Key  Key
	Trie KeyTrie
}

// Node is an interior trie node. Bindings keep their declaration order.
type Node struct {
	Label  string
	Sticky bool

	order    []Key
	children map[Key]KeyTrie
}

// NewNode parses bindings into a node, failing on bad notation or a key
// bound twice.
func NewNode(label string, bindings ...Binding) (*Node, error) {
	n := &Node{Label: label, children: make(map[Key]KeyTrie)}
	for _, b := range bindings {
		for _, alt := range strings.Split(b.Key, "|") {
			key, err := ParseKey(alt)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", label, err)
			}
			if _, dup := n.children[key]; dup {
				return nil, fmt.Errorf("%w: %q in node %q", ErrDuplicateBinding, key, label)
			}
			n.children[key] = b.Trie
			n.order = append(n.order, key)
		}
	}
	return n, nil
}

// MustNode is NewNode that panics on error. It is meant for keymaps built at
// package initialisation.
func MustNode(label string, bindings ...Binding) *Node {
	n, err := NewNode(label, bindings...)
	if err != nil {
		panic(err)
	}
	return n
}

// Sticky marks n as sticky and returns it.
func Sticky(n *Node) *Node {
	n.Sticky = true
	return n
}

// Get returns the direct child bound to key.
func (n *Node) Get(key Key) (KeyTrie, bool) {
	t, ok := n.children[key]
	return t, ok
}

// Search walks keys from n. An empty path resolves to n itself.
func (n *Node) Search(keys []Key) (KeyTrie, bool) {
	trie := Sub(n)
	for _, k := range keys {
		if trie.kind != KindNode {
			return KeyTrie{}, false
		}
		next, ok := trie.node.children[k]
		if !ok {
			return KeyTrie{}, false
		}
		trie = next
	}
	return trie, true
}

// Entries returns the node's bindings in declaration order.
func (n *Node) Entries() []Entry {
	out := make([]Entry, len(n.order))
	for i, k := range n.order {
		out[i] = Entry{Key: k, Trie: n.children[k]}
	}
	return out
}

// Len reports the number of direct bindings.
func (n *Node) Len() int {
	return len(n.order)
}
