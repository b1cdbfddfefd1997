package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"go-pianoroll/widgets"
)

type KeyMap struct {
	Play        key.Binding
	Cancel      key.Binding
	Delete      key.Binding
	ToggleAdd   key.Binding
	Shorter     key.Binding
	Longer      key.Binding
	ReadOnly    key.Binding
	Save        key.Binding
	Revert      key.Binding
	Export      key.Binding
	Snapshot    key.Binding
	Browse      key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	PitchUp     key.Binding
	PitchDown   key.Binding
	Home        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var DefaultKeyMap = KeyMap{
	Play: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "play/stop"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel drag"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete", "backspace"),
		key.WithHelp("x", "delete note"),
	),
	ToggleAdd: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "click-to-add"),
	),
	Shorter: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "shorter"),
	),
	Longer: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "longer"),
	),
	ReadOnly: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "read-only"),
	),
	Save: key.NewBinding(
		key.WithKeys(tea.KeyCtrlS.String()),
		key.WithHelp("ctrl+s", "save"),
	),
	Revert: key.NewBinding(
		key.WithKeys(tea.KeyCtrlO.String()),
		key.WithHelp("ctrl+o", "load last save"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export .mid"),
	),
	Snapshot: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "png"),
	),
	Browse: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "browse saves"),
	),
	ScrollLeft: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "earlier"),
	),
	ScrollRight: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "later"),
	),
	PitchUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "higher"),
	),
	PitchDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "lower"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "start"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", tea.KeyCtrlC.String()),
		key.WithHelp("q", "quit"),
	),
}

// Sections groups the bindings for the help screen
func (k KeyMap) Sections() []widgets.KeySection {
	return []widgets.KeySection{
		widgets.Section("Transport", k.Play, k.Home),
		widgets.Section("Edit", k.Delete, k.Cancel, k.ToggleAdd, k.Shorter, k.Longer, k.ReadOnly),
		widgets.Section("View", k.ScrollLeft, k.ScrollRight, k.PitchUp, k.PitchDown),
		widgets.Section("Files", k.Save, k.Revert, k.Browse, k.Export, k.Snapshot),
		widgets.Section("", k.Help, k.Quit),
	}
}

// Short is the footer bar
func (k KeyMap) Short() []widgets.KeySection {
	return []widgets.KeySection{
		widgets.Section("", k.Play, k.Delete, k.Save, k.Export, k.Help, k.Quit),
	}
}
