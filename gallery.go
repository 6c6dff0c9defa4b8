package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ── Layout Cache ──────────────────────────────────────────────────

const (
	galleryPadX         = 2
	galleryHeaderHeight = 3 // title row, subtitle, blank
	cardMinWidth        = 32
	cardMaxWidth        = 40
	maxCardsPerRow      = 4
)

type LayoutCache struct {
	CardWidth   int
	AvatarCols  int
	AvatarRows  int
	CardHeight  int
	CardsPerRow int
	VisibleRows int
	valid       bool
}

func (m *Model) recomputeLayout() {
	cw, ac, ar, ch, cpr := m.cardLayout()
	visible := (m.bodyHeight() - galleryHeaderHeight) / (ch + 2)
	if visible < 1 {
		visible = 1
	}
	m.layout = LayoutCache{
		CardWidth:   cw,
		AvatarCols:  ac,
		AvatarRows:  ar,
		CardHeight:  ch,
		CardsPerRow: cpr,
		VisibleRows: visible,
		valid:       true,
	}
	if m.wizard != nil {
		m.wizard.setWidth(m.wizardBoxWidth() - 8)
	}
	m.ensureVisible()
}

func (m Model) galleryWidth() int {
	w := m.width - 2*galleryPadX
	if w < 1 {
		w = 1
	}
	return w
}

// cardLayout mirrors the responsive grid: as many columns as fit, up to
// four.
func (m Model) cardLayout() (cardWidth, avatarCols, avatarRows, cardHeight, cardsPerRow int) {
	avail := m.galleryWidth()

	cardsPerRow = avail / (cardMinWidth + 2)
	if cardsPerRow < 1 {
		cardsPerRow = 1
	}
	if cardsPerRow > maxCardsPerRow {
		cardsPerRow = maxCardsPerRow
	}

	cardWidth = avail/cardsPerRow - 2 // subtract borders
	if cardWidth > cardMaxWidth {
		cardWidth = cardMaxWidth
	}
	if cardWidth < 8 {
		cardWidth = 8
	}

	avatarCols = cardWidth - 2
	// Half-blocks double the vertical resolution.
	avatarRows = avatarCols / 5
	if avatarRows < 4 {
		avatarRows = 4
	}
	if avatarRows > 7 {
		avatarRows = 7
	}

	cardHeight = avatarRows + cardTextLines
	return
}

// ── Selection ─────────────────────────────────────────────────────

// gallerySlots counts the cards plus the trailing add tile.
func (m Model) gallerySlots() int { return m.registry.Len() + 1 }

func (m Model) addTileIndex() int { return m.registry.Len() }

func (m *Model) moveSelection(delta int) {
	next := m.selected + delta
	if next < 0 || next >= m.gallerySlots() {
		return
	}
	m.selected = next
	m.ensureVisible()
}

// ensureVisible scrolls the grid so the selected slot is on screen.
func (m *Model) ensureVisible() {
	cpr := m.layout.CardsPerRow
	if cpr < 1 {
		return
	}
	row := m.selected / cpr
	if row < m.scrollRow {
		m.scrollRow = row
	}
	if vis := m.layout.VisibleRows; vis > 0 && row >= m.scrollRow+vis {
		m.scrollRow = row - vis + 1
	}
}

// ── Gallery Rendering ─────────────────────────────────────────────

func (m Model) renderGallery(height int) string {
	header := m.renderGalleryHeader()
	contentH := height - galleryHeaderHeight
	if contentH < 1 {
		contentH = 1
	}

	var content string
	agents := m.registry.List()
	if len(agents) == 0 {
		content = lipgloss.Place(m.galleryWidth(), contentH, lipgloss.Center, lipgloss.Center, m.renderEmptyState())
	} else {
		content = m.renderGrid(agents)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		MaxHeight(height).
		Padding(0, galleryPadX).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, content))
}

func renderCreateButton() string {
	return styleButton.Render("+ Criar Agente")
}

func (m Model) renderGalleryHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPurpleLight).Render("Workspace")
	button := renderCreateButton()

	gap := m.galleryWidth() - lipgloss.Width(title) - lipgloss.Width(button)
	if gap < 1 {
		gap = 1
	}
	top := title + strings.Repeat(" ", gap) + button

	subtitle := styleTextDim.Render(truncLine("Gerencie seus funcionários digitais e aumente sua produtividade", m.galleryWidth()))
	return lipgloss.JoinVertical(lipgloss.Left, top, subtitle, "")
}

// createButtonSpan returns the screen columns of the header button.
func (m Model) createButtonSpan() (x0, x1 int) {
	x1 = galleryPadX + m.galleryWidth()
	x0 = x1 - lipgloss.Width(renderCreateButton())
	return x0, x1
}

func (m Model) renderEmptyState() string {
	width := 56
	if gw := m.galleryWidth(); gw < width+2 {
		width = gw - 2
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		stylePurpleBold.Render("+"),
		"",
		styleNameBright.Render("Nenhum agente criado"),
		"",
		styleTextDim.Width(width-6).Align(lipgloss.Center).
			Render("Crie seu primeiro funcionário digital para automatizar tarefas e aumentar a produtividade da sua equipe"),
		"",
		styleButton.Render("Criar Primeiro Agente"),
	)

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPurpleDark).
		Background(colorBgDark).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(content)
}

// emptyStateBounds returns the screen rectangle of the empty-state box.
func (m Model) emptyStateBounds() (x0, y0, x1, y1 int) {
	box := m.renderEmptyState()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	areaH := m.bodyHeight() - galleryHeaderHeight
	x0 = galleryPadX + (m.galleryWidth()-w)/2
	y0 = navbarHeight + galleryHeaderHeight + (areaH-h)/2
	return x0, y0, x0 + w, y0 + h
}

func (m Model) renderGrid(agents []Agent) string {
	cpr := m.layout.CardsPerRow
	if cpr < 1 {
		cpr = 1
	}

	var tiles []string
	for i, a := range agents {
		tiles = append(tiles, m.renderCard(a, i == m.selected))
	}
	tiles = append(tiles, m.renderAddTile(m.selected == len(agents)))

	var rows []string
	for i := 0; i < len(tiles); i += cpr {
		end := i + cpr
		if end > len(tiles) {
			end = len(tiles)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles[i:end]...))
	}

	start := m.scrollRow
	if start > len(rows)-1 {
		start = len(rows) - 1
	}
	end := start + m.layout.VisibleRows
	if end > len(rows) {
		end = len(rows)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows[start:end]...)
}

// slotAt maps a screen cell inside the grid to a gallery slot, or -1.
func (m Model) slotAt(x, y int) int {
	cpr := m.layout.CardsPerRow
	tileW := m.layout.CardWidth + 2
	tileH := m.layout.CardHeight + 2
	gridTop := navbarHeight + galleryHeaderHeight
	if cpr < 1 || x < galleryPadX || y < gridTop {
		return -1
	}
	col := (x - galleryPadX) / tileW
	if col >= cpr {
		return -1
	}
	row := (y-gridTop)/tileH + m.scrollRow
	idx := row*cpr + col
	if idx >= m.gallerySlots() {
		return -1
	}
	return idx
}
