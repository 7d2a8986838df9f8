package tui

import (
	"github.com/Pallavbh23/heapstack"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap binds keys to session operations.
type KeyMap struct {
	Pop    key.Binding
	Pop3   key.Binding
	PopAll key.Binding
	Return key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pop:    key.NewBinding(key.WithKeys("p", "1"), key.WithHelp("p", "pop")),
		Pop3:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "pop 3")),
		PopAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "pop all")),
		Return: key.NewBinding(key.WithKeys("r", "backspace"), key.WithHelp("r", "return to heap")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pop, k.Pop3, k.PopAll, k.Return, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pop, k.Pop3, k.PopAll},
		{k.Return},
		{k.Help, k.Quit},
	}
}

// opFor maps a pressed binding to the session operation it triggers.
func (k KeyMap) opFor(msg string) (heapstack.Op, bool) {
	for _, b := range []struct {
		binding key.Binding
		op      heapstack.Op
	}{
		{k.Pop, heapstack.Op{Kind: heapstack.OpPop, N: 1}},
		{k.Pop3, heapstack.Op{Kind: heapstack.OpPop, N: 3}},
		{k.PopAll, heapstack.Op{Kind: heapstack.OpPopAll}},
		{k.Return, heapstack.Op{Kind: heapstack.OpReturn}},
	} {
		for _, name := range b.binding.Keys() {
			if name == msg && b.binding.Enabled() {
				return b.op, true
			}
		}
	}
	return heapstack.Op{}, false
}
