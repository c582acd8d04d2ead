package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	ExpandAll  key.Binding
	Grab       key.Binding
	Cancel     key.Binding
	NewSection key.Binding
	NewChapter key.Binding
	Rename     key.Binding
	Delete     key.Binding
	Refresh    key.Binding
	SwitchPane key.Binding
	Save       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/drop")),
	ExpandAll:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
	Grab:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	NewSection: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add section")),
	NewChapter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "add chapter")),
	Rename:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
	Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Refresh:    key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "reload")),
	SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "form")),
	Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp and FullHelp implement help.KeyMap for the tree pane footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Grab, k.NewSection, k.NewChapter, k.Delete, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.ExpandAll},
		{k.Grab, k.Cancel},
		{k.NewSection, k.NewChapter, k.Rename, k.Delete},
		{k.Refresh, k.SwitchPane, k.Save, k.Quit},
	}
}

// formKeys is the footer help while the chapter form has focus.
type formKeys struct{}

func (formKeys) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/shift+tab", "field")),
		keys.Save,
		key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (f formKeys) FullHelp() [][]key.Binding { return [][]key.Binding{f.ShortHelp()} }
