package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the studio responds to.
type KeyMap struct {
	// Global
	Quit    key.Binding
	Palette key.Binding

	// Gallery
	New   key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding

	// Wizard
	Back        key.Binding
	Toggle      key.Binding
	SwitchField key.Binding
	Submit      key.Binding
	Browse      key.Binding
	Detach      key.Binding
	Parent      key.Binding
}

// DefaultKeyMap returns a KeyMap with default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "sair"),
		),
		Palette: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "comandos"),
		),

		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "criar agente"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "cima"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "baixo"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "esquerda"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "direita"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "abrir"),
		),

		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "voltar"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("espaço", "marcar"),
		),
		SwitchField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "campo"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "criar agente"),
		),
		Browse: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "anexar arquivo"),
		),
		Detach: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remover arquivo"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "pasta acima"),
		),
	}
}

// hint renders bindings as the compact "key:desc" list used in status lines.
func hint(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += h.Key + ":" + h.Desc
	}
	return out
}
