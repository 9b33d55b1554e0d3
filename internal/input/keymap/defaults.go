package keymap

import "fmt"

// Defaults returns the built-in keymap. The font-size commands carry no
// chord and stay reachable through the command palette only.
func Defaults() *Keymap {
	km := New("default")
	for _, b := range defaultBindings {
		if err := km.Add(b); err != nil {
			panic(fmt.Sprintf("keymap: default binding %q: %v", b.Keys, err))
		}
	}
	return km
}

var defaultBindings = []Binding{
	// Scrolling
	{Keys: "Ctrl+Shift+Up", Command: "view.scrollLineUp", Description: "Scroll line up", Category: "Scrolling", Source: "default"},
	{Keys: "Ctrl+Shift+Down", Command: "view.scrollLineDown", Description: "Scroll line down", Category: "Scrolling", Source: "default"},

	// Application
	{Keys: "Ctrl+p", Command: "app.commandPalette", Description: "Open the command palette", Category: "Application", Source: "default"},
	{Keys: "Ctrl+q", Command: "app.quit", Description: "Quit", Category: "Application", Source: "default"},
}
