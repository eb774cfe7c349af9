package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Load       key.Binding
	Reload     key.Binding
	Presets    []key.Binding
	Maximize   key.Binding
	Fullscreen key.Binding
	Scale      key.Binding
	Open       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap(presetNames []string) keyMap {
	km := keyMap{
		Load:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load")),
		Reload:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Maximize:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "maximize")),
		Fullscreen: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "fullscreen")),
		Scale:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "scaling")),
		Open:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open window")),
		Help:       key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}

	// alt+N and fN select the Nth preset; only the first four get keys.
	fkeys := []string{"f1", "f2", "f3", "f4"}
	for i, name := range presetNames {
		if i >= len(fkeys) {
			break
		}
		n := string(rune('1' + i))
		km.Presets = append(km.Presets, key.NewBinding(
			key.WithKeys("alt+"+n, fkeys[i]),
			key.WithHelp("alt+"+n, name),
		))
	}
	return km
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Load, k.Reload, k.Fullscreen, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Load, k.Reload, k.Open},
		k.Presets,
		{k.Maximize, k.Fullscreen, k.Scale},
		{k.Help, k.Quit},
	}
}
