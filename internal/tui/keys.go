package tui

import "github.com/charmbracelet/bubbles/key"

type focus int

const (
	focusInput focus = iota
	focusResults
)

type keyMap struct {
	Translate key.Binding
	Example   key.Binding
	Clear     key.Binding
	Prev      key.Binding
	Next      key.Binding
	Open      key.Binding
	Focus     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	k := keyMap{
		Translate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "translate")),
		Example:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "example")),
		Clear:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open media")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
	k.setFocus(focusInput)
	return k
}

// setFocus rebinds the keys that would otherwise collide with typing.
func (k *keyMap) setFocus(f focus) {
	if f == focusResults {
		k.Prev = key.NewBinding(key.WithKeys("left", "h", "up", "ctrl+p"), key.WithHelp("←/h", "prev"))
		k.Next = key.NewBinding(key.WithKeys("right", "l", "down", "ctrl+n"), key.WithHelp("→/l", "next"))
		k.Focus = key.NewBinding(key.WithKeys("esc", "i", "/"), key.WithHelp("i", "type"))
		k.Open.SetEnabled(true)
		k.Help.SetEnabled(true)
		k.Example.SetEnabled(false)
		return
	}
	k.Prev = key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev"))
	k.Next = key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next"))
	k.Focus = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "browse"))
	k.Open.SetEnabled(false)
	k.Help.SetEnabled(false)
	k.Example.SetEnabled(true)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Translate, k.Example, k.Prev, k.Next, k.Open, k.Focus, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Translate, k.Example, k.Clear},
		{k.Prev, k.Next, k.Open},
		{k.Focus, k.Help, k.Quit},
	}
}
