package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/starrate/rating"
)

// KeyMap binds terminal keys to rating keys and focus traversal.
type KeyMap struct {
	Increase  key.Binding
	Decrease  key.Binding
	Home      key.Binding
	End       key.Binding
	Activate  key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	Blur      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Increase: key.NewBinding(
			key.WithKeys("right", "up", "l", "k", "+"),
			key.WithHelp("→/↑", "more"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left", "down", "h", "j", "-"),
			key.WithHelp("←/↓", "less"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "0"),
			key.WithHelp("home", "clear"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "$"),
			key.WithHelp("end", "max"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "pick focused"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next star"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev star"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave"),
		),
	}
}

// RatingKey maps a key message onto the widget's key set.
func (k KeyMap) RatingKey(msg tea.KeyMsg) rating.Key {
	switch {
	case key.Matches(msg, k.Increase):
		return rating.KeyIncrease
	case key.Matches(msg, k.Decrease):
		return rating.KeyDecrease
	case key.Matches(msg, k.Home):
		return rating.KeyHome
	case key.Matches(msg, k.End):
		return rating.KeyEnd
	case key.Matches(msg, k.Activate):
		return rating.KeyActivate
	}
	return rating.KeyNone
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Increase, k.Decrease, k.NextFocus, k.Activate, k.Blur}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Increase, k.Decrease, k.Home, k.End},
		{k.NextFocus, k.PrevFocus, k.Activate, k.Blur},
	}
}
