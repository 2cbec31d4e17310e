package keybind

// NavigationKeyMap holds the keys that move a list selection.
type NavigationKeyMap struct {
	Down     Keybind
	Up       Keybind
	PageDown Keybind
	PageUp   Keybind
	Home     Keybind
	End      Keybind
}

// DefaultNavigationKeyMap binds arrows and paging keys plus their vi
// equivalents.
func DefaultNavigationKeyMap() NavigationKeyMap {
	return NavigationKeyMap{
		Down:     NewKeybind(WithKeys("down", "j"), WithHelp("↓/j", "down")),
		Up:       NewKeybind(WithKeys("up", "k"), WithHelp("↑/k", "up")),
		PageDown: NewKeybind(WithKeys("pgdn", "ctrl+f"), WithHelp("pgdn/ctrl+f", "page down")),
		PageUp:   NewKeybind(WithKeys("pgup", "ctrl+b"), WithHelp("pgup/ctrl+b", "page up")),
		Home:     NewKeybind(WithKeys("home", "g"), WithHelp("home/g", "first")),
		End:      NewKeybind(WithKeys("end", "G"), WithHelp("end/G", "last")),
	}
}

func (m NavigationKeyMap) ShortHelp() []Keybind {
	return []Keybind{m.Down, m.Up}
}

func (m NavigationKeyMap) FullHelp() [][]Keybind {
	return [][]Keybind{
		{m.Down, m.Up},
		{m.PageDown, m.PageUp},
		{m.Home, m.End},
	}
}
