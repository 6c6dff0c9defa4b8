package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ── Command Palette (Sub-Model Pattern) ───────────────────────────
//
// The palette owns its input and cursor but mutates the parent Model only
// through Action closures.

// PaletteAction represents a single command palette entry.
type PaletteAction struct {
	Label  string
	Action func(m *Model) tea.Cmd
}

// paletteActions builds the full list of available commands.
func (m Model) paletteActions() []PaletteAction {
	actions := []PaletteAction{
		{
			Label: "Novo agente",
			Action: func(m *Model) tea.Cmd {
				m.popMode()
				newM, cmd := m.requestCreate()
				*m = newM
				return cmd
			},
		},
	}

	for i, a := range m.registry.List() {
		idx := i
		actions = append(actions, PaletteAction{
			Label: fmt.Sprintf("Selecionar %s (%s)", a.Name, a.Role),
			Action: func(m *Model) tea.Cmd {
				m.selected = idx
				m.ensureVisible()
				return nil
			},
		})
	}

	if m.configPath != "" {
		path := m.configPath
		actions = append(actions, PaletteAction{
			Label: "Recarregar catálogo",
			Action: func(m *Model) tea.Cmd {
				return reloadCatalogCmd(path)
			},
		})
	}

	actions = append(actions, PaletteAction{
		Label: "Sair",
		Action: func(m *Model) tea.Cmd {
			return tea.Quit
		},
	})

	return actions
}

// filteredPaletteActions returns actions matching the current input filter.
func (m Model) filteredPaletteActions() []PaletteAction {
	all := m.paletteActions()
	if m.cmdPaletteInput == "" {
		return all
	}
	query := strings.ToLower(m.cmdPaletteInput)
	var filtered []PaletteAction
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Label), query) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// handleCommandPalette processes key input for the command palette mode.
func (m Model) handleCommandPalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.popMode()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		actions := m.filteredPaletteActions()
		if m.cmdPaletteCursor >= 0 && m.cmdPaletteCursor < len(actions) {
			cmd := actions[m.cmdPaletteCursor].Action(&m)
			if m.mode == ModeCommandPalette {
				m.popMode()
			}
			return m, cmd
		}
		m.popMode()
		return m, nil
	case "up", "ctrl+p":
		if m.cmdPaletteCursor > 0 {
			m.cmdPaletteCursor--
		}
	case "down", "ctrl+n":
		actions := m.filteredPaletteActions()
		if m.cmdPaletteCursor < len(actions)-1 {
			m.cmdPaletteCursor++
		}
	case "backspace":
		if len(m.cmdPaletteInput) > 0 {
			r := []rune(m.cmdPaletteInput)
			m.cmdPaletteInput = string(r[:len(r)-1])
			m.cmdPaletteCursor = 0
		}
	default:
		r := []rune(msg.String())
		if len(r) == 1 && r[0] >= ' ' {
			m.cmdPaletteInput += string(r)
			m.cmdPaletteCursor = 0
		}
	}
	return m, nil
}
