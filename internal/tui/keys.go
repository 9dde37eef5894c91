package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Save   key.Binding
	Skip   key.Binding
	Export key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save & continue")),
		Skip:   key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "skip")),
		Export: key.NewBinding(key.WithKeys("e", "E"), key.WithHelp("e", "export progress")),
		Quit:   key.NewBinding(key.WithKeys("q", "Q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// forStage disables the training bindings once every trait has been visited.
func (k keyMap) forStage(training bool) keyMap {
	for _, b := range []*key.Binding{&k.Left, &k.Right, &k.Up, &k.Down, &k.Toggle, &k.Save, &k.Skip} {
		b.SetEnabled(training)
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Save, k.Skip, k.Export, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Toggle, k.Save, k.Skip},
		{k.Export, k.Quit},
	}
}
