package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Mavericks color palette
var (
	colorPurple      = lipgloss.Color("#6E42CA")
	colorPurpleLight = lipgloss.Color("#9D7FEA")
	colorPurpleDark  = lipgloss.Color("#4A2A8A")
	colorOrange      = lipgloss.Color("#FF6347")
	colorOrangeLight = lipgloss.Color("#FFA07A")
	colorOrangeDark  = lipgloss.Color("#D84A32")
	colorBgDark      = lipgloss.Color("#0A0A0A")
	colorBgMedium    = lipgloss.Color("#141018")
	colorBgLight     = lipgloss.Color("#221C2B")
	colorBorder      = lipgloss.Color("#3A3145")
	colorText        = lipgloss.Color("#D1D5DB")
	colorTextDim     = lipgloss.Color("#9CA3AF")
	colorTextBright  = lipgloss.Color("#FFFFFF")
)

// Pre-allocated styles for hot render paths.
var (
	styleNameBright  = lipgloss.NewStyle().Bold(true).Foreground(colorTextBright)
	styleTextDim     = lipgloss.NewStyle().Foreground(colorTextDim)
	styleText        = lipgloss.NewStyle().Foreground(colorText)
	styleTitle       = lipgloss.NewStyle().Bold(true).Foreground(colorPurpleLight)
	stylePurple      = lipgloss.NewStyle().Foreground(colorPurple)
	stylePurpleLight = lipgloss.NewStyle().Foreground(colorPurpleLight)
	stylePurpleBold  = lipgloss.NewStyle().Foreground(colorPurpleLight).Bold(true)
	styleOrangeBold  = lipgloss.NewStyle().Foreground(colorOrangeLight).Bold(true)
	styleError       = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)

	styleStepCurrent = lipgloss.NewStyle().Bold(true).Foreground(colorTextBright).Background(colorOrangeDark).Padding(0, 1)
	styleStepDone    = lipgloss.NewStyle().Foreground(colorPurpleLight).Background(colorPurpleDark).Padding(0, 1)
	styleStepFuture  = lipgloss.NewStyle().Foreground(colorTextDim).Background(colorBgLight).Padding(0, 1)

	styleInput = lipgloss.NewStyle().
			Foreground(colorTextBright).
			Background(colorBgLight).
			Padding(0, 1)
	styleDropZone = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorPurpleDark).
			Padding(0, 2).
			Align(lipgloss.Center)

	styleBadge        = lipgloss.NewStyle().Foreground(colorPurpleLight).Background(colorPurpleDark).Padding(0, 1)
	styleButton       = lipgloss.NewStyle().Foreground(colorTextBright).Background(colorOrangeDark).Bold(true).Padding(0, 2)
	styleButtonSubtle = lipgloss.NewStyle().Foreground(colorText).Background(colorBgLight).Padding(0, 2)
)

// ── Chrome Geometry ───────────────────────────────────────────────

const (
	navbarHeight    = 2 // items + bottom border
	footerHeight    = 1
	statusBarHeight = 1
	navbarPadX      = 2
	navGap          = 2
)

func (m Model) bodyHeight() int {
	h := m.height - navbarHeight - footerHeight - statusBarHeight
	if h < 1 {
		h = 1
	}
	return h
}

// ── View ───────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}

	if m.mode == ModeCommandPalette {
		return m.renderCommandPalette()
	}

	var body string
	switch m.view {
	case ViewWizard:
		body = m.renderWizard(m.bodyHeight())
	default:
		body = m.renderGallery(m.bodyHeight())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderNavbar(),
		body,
		m.renderFooter(),
		m.renderStatusBar(),
	)
}

// ── Navbar ─────────────────────────────────────────────────────────

// navItem is one navbar entry. Entries without a target view are shown
// but do nothing.
type navItem struct {
	Label  string
	Target View
	Inert  bool
}

var navItems = []navItem{
	{Label: "Workspace", Target: ViewGallery},
	{Label: "Criar Agente", Target: ViewWizard},
	{Label: "Integrações", Inert: true},
	{Label: "Relatórios", Inert: true},
}

func renderBrand() string {
	return lipgloss.NewStyle().Bold(true).Foreground(colorPurpleLight).Render("mavericks") +
		lipgloss.NewStyle().Bold(true).Foreground(colorOrangeLight).Render(" AI")
}

func (m Model) renderNavItem(it navItem) string {
	style := lipgloss.NewStyle().Foreground(colorTextDim).Padding(0, 1)
	if !it.Inert && it.Target == m.view {
		style = style.Foreground(colorTextBright).Background(colorPurpleDark).Bold(true)
	}
	return style.Render(it.Label)
}

// navItemAt maps a column on the navbar row to an item index, or -1.
func (m Model) navItemAt(x int) int {
	pos := navbarPadX + lipgloss.Width(renderBrand()) + navGap*2
	for i, it := range navItems {
		w := lipgloss.Width(m.renderNavItem(it))
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + navGap
	}
	return -1
}

func (m Model) renderNavbar() string {
	parts := []string{renderBrand(), strings.Repeat(" ", navGap*2)}
	for i, it := range navItems {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", navGap))
		}
		parts = append(parts, m.renderNavItem(it))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, navbarPadX).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorBorder).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

// ── Footer ─────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(colorTextDim).
		Render("© 2025 Mavericks AI. Todos os direitos reservados.")
}

// ── Status Bar ─────────────────────────────────────────────────────

func (m Model) renderStatusBar() string {
	var hints string
	switch m.view {
	case ViewWizard:
		hints = wizardHint(m.wizard)
	default:
		hints = "←↑↓→:navegar  " + hint(m.keys.Enter, m.keys.New, m.keys.Palette, m.keys.Quit)
	}

	right := lipgloss.NewStyle().Foreground(colorTextDim).Render(hints)
	if m.notice != "" {
		right = lipgloss.NewStyle().Foreground(colorOrangeLight).Render(m.notice)
	}

	return lipgloss.NewStyle().
		Background(colorBgMedium).
		Foreground(colorText).
		Width(m.width).
		MaxHeight(statusBarHeight).
		Padding(0, 2).
		Render(fmt.Sprintf("%s │ Agentes: %d │ %s",
			lipgloss.NewStyle().Bold(true).Render(viewTitle(m.view)),
			m.registry.Len(),
			right,
		))
}

func viewTitle(v View) string {
	if v == ViewWizard {
		return "Criar Agente"
	}
	return "Workspace"
}

// ── Command Palette ────────────────────────────────────────────────

func (m Model) renderCommandPalette() string {
	paletteWidth := 50
	if m.width < paletteWidth+4 {
		paletteWidth = m.width - 4
	}

	input := styleInput.Width(paletteWidth - 6).Render(": " + m.cmdPaletteInput + "█")

	actions := m.filteredPaletteActions()
	maxVisible := 12
	if len(actions) < maxVisible {
		maxVisible = len(actions)
	}

	var lines []string
	for i := 0; i < maxVisible; i++ {
		prefix := "  "
		style := styleTextDim
		if i == m.cmdPaletteCursor {
			prefix = "> "
			style = styleNameBright
		}
		lines = append(lines, style.Render(prefix+actions[i].Label))
	}
	if len(actions) == 0 {
		lines = append(lines, styleTextDim.Render("  (nenhum comando)"))
	}
	if len(actions) > maxVisible {
		lines = append(lines, styleTextDim.Render(fmt.Sprintf("  ... +%d", len(actions)-maxVisible)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		stylePurpleBold.Render("Comandos"),
		"",
		input,
		"",
		strings.Join(lines, "\n"),
		"",
		styleTextDim.Render("↑↓:navegar  enter:executar  esc:fechar"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorPurple).
		Background(colorBgMedium).
		Padding(1, 2).
		Width(paletteWidth).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// truncLine cuts s to maxW runes, marking the cut with an ellipsis.
func truncLine(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxW {
		return s
	}
	if maxW == 1 {
		return "…"
	}
	return string(r[:maxW-1]) + "…"
}
