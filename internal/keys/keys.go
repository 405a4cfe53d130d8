package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down       key.Binding
	Up         key.Binding
	SwitchList key.Binding
	Search     key.Binding

	// Task actions
	Toggle     key.Binding
	Important  key.Binding
	Move       key.Binding
	Delete     key.Binding
	Add        key.Binding
	AddSubtask key.Binding
	Edit       key.Binding
	Deadline   key.Binding
	Expand     key.Binding

	// Sync
	CopySync   key.Binding
	CopyText   key.Binding
	Paste      key.Binding
	Import     key.Binding
	ShowQR     key.Binding
	UndoImport key.Binding

	// App
	Theme   key.Binding
	Command key.Binding
	Help    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		SwitchList: key.NewBinding(
			key.WithKeys("tab", "h", "l", "left", "right"),
			key.WithHelp("tab", "switch list"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle done"),
		),
		Important: key.NewBinding(
			key.WithKeys("i", "!"),
			key.WithHelp("i", "important"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "push/pull"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Add: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "new task"),
		),
		AddSubtask: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "add subtask"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Deadline: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "deadline"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "expand/collapse"),
		),
		CopySync: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy sync code"),
		),
		CopyText: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy text export"),
		),
		Paste: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "merge from clipboard"),
		),
		Import: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import"),
		),
		ShowQR: key.NewBinding(
			key.WithKeys("Q"),
			key.WithHelp("Q", "show QR"),
		),
		UndoImport: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo import"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "toggle theme"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.SwitchList, k.Toggle, k.Move, k.Add,
		k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchList, k.Search, k.Expand, k.Back, k.Quit},
		{k.Toggle, k.Important, k.Move, k.Delete, k.Add, k.AddSubtask, k.Edit, k.Deadline},
		{k.CopySync, k.CopyText, k.Paste, k.Import, k.ShowQR, k.UndoImport},
		{k.Theme, k.Command, k.Help},
	}
}
