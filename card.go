package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ── Card Layout ───────────────────────────────────────────────────

const (
	maxIntegrationBadges = 3
	maxKnowledgeBadges   = 2

	// Integration badges may wrap onto a second line.
	integrationBadgeLines = 2

	// Lines under the avatar: name, role, blank, the labelled personality,
	// integration and knowledge badge rows, blank, buttons.
	cardTextLines = 10 + integrationBadgeLines
)

// ── Agent Card ────────────────────────────────────────────────────

func (m Model) renderCard(a Agent, selected bool) string {
	lay := m.layout
	inner := lay.CardWidth - 2

	style := lipgloss.NewStyle().
		Width(lay.CardWidth).
		Height(lay.CardHeight).
		MaxHeight(lay.CardHeight + 2).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder)
	if selected {
		style = style.BorderForeground(colorOrange).Background(colorBgLight)
	}

	avatar := m.avatarFor(a).render(lay.AvatarCols, lay.AvatarRows)

	integrations := make([]string, len(a.Integrations))
	for i, id := range a.Integrations {
		integrations[i] = m.catalog.IntegrationLabel(id)
	}
	knowledge := make([]string, len(a.KnowledgeBase))
	for i, id := range a.KnowledgeBase {
		knowledge[i] = m.catalog.KnowledgeBaseLabel(id)
	}
	personality := truncLine(m.catalog.PersonalityLabel(firstLine(a.Personality)), inner-2)

	content := lipgloss.JoinVertical(lipgloss.Left,
		avatar,
		styleNameBright.Render(truncLine(a.Name, inner)),
		stylePurpleLight.Render(truncLine(a.Role, inner)),
		"",
		styleTextDim.Render("Personalidade"),
		renderBadgeRow([]string{personality}, 1, inner, 1),
		styleTextDim.Render("Integrações"),
		lipgloss.NewStyle().Height(integrationBadgeLines).
			Render(renderBadgeRow(integrations, maxIntegrationBadges, inner, integrationBadgeLines)),
		styleTextDim.Render("Base de Conhecimento"),
		renderBadgeRow(knowledge, maxKnowledgeBadges, inner, 1),
		"",
		renderCardButtons(),
	)

	return style.Render(content)
}

// renderBadgeRow shows up to limit labels followed by a "+K" badge for the
// rest, wrapped into at most maxLines lines of width. When that does not
// fit, trailing labels fold into the "+K" count, so hidden labels are
// always counted.
func renderBadgeRow(labels []string, limit, width, maxLines int) string {
	for shown := min(limit, len(labels)); shown >= 0; shown-- {
		if out, ok := layoutBadges(badgeRow(labels, shown), width, maxLines); ok {
			return out
		}
	}
	return ""
}

// layoutBadges wraps badges into lines of width. It fails when a badge is
// wider than a line or more than maxLines lines are needed.
func layoutBadges(labels []string, width, maxLines int) (string, bool) {
	var lines []string
	var cur strings.Builder
	used := 0
	for _, l := range labels {
		b := styleBadge.Render(l)
		w := lipgloss.Width(b)
		if w > width {
			return "", false
		}
		if used > 0 && used+1+w > width {
			lines = append(lines, cur.String())
			cur.Reset()
			used = 0
		}
		if used > 0 {
			cur.WriteString(" ")
			used++
		}
		cur.WriteString(b)
		used += w
	}
	if used > 0 {
		lines = append(lines, cur.String())
	}
	if len(lines) > maxLines {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// renderCardButtons draws the Chat and Detalhes actions. Neither does
// anything yet.
func renderCardButtons() string {
	return styleButtonSubtle.Render("Chat") + " " + styleButtonSubtle.Render("Detalhes")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

// ── Add Tile ──────────────────────────────────────────────────────

func (m Model) renderAddTile(selected bool) string {
	lay := m.layout

	border := colorPurpleDark
	if selected {
		border = colorOrange
	}
	style := lipgloss.NewStyle().
		Width(lay.CardWidth).
		Height(lay.CardHeight).
		Border(lipgloss.Border{
			Top: "╌", Bottom: "╌", Left: "╎", Right: "╎",
			TopLeft: "╭", TopRight: "╮", BottomLeft: "╰", BottomRight: "╯",
		}).
		BorderForeground(border).
		Background(colorBgDark).
		Align(lipgloss.Center, lipgloss.Center)

	content := lipgloss.JoinVertical(lipgloss.Center,
		stylePurpleBold.Render("+"),
		"",
		styleNameBright.Render("Adicionar Agente"),
		styleTextDim.Width(lay.CardWidth-4).Align(lipgloss.Center).
			Render("Crie um novo funcionário digital para sua equipe"),
	)
	return style.Render(content)
}
